package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort        = 3318
	DefaultDatabaseURL = "habits.db"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	ConfigFile    string
	Notifications bool
	Chime         bool
	UI            bool
	LogLevel      string
	LogFile       string
	ExportDir     string
	TickInterval  time.Duration
}

// fileConfig is the YAML layout; pointers distinguish "unset" from zero.
type fileConfig struct {
	Port     *int `yaml:"port"`
	Database struct {
		URL  string `yaml:"url"`
		Type string `yaml:"type"`
	} `yaml:"database"`
	Notifications *bool  `yaml:"notifications"`
	Chime         *bool  `yaml:"chime"`
	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	ExportDir     string `yaml:"export_dir"`
	TickInterval  string `yaml:"tick_interval"`
}

// ParseFlags builds the configuration. Precedence: CLI flags, then
// environment (including a .env file), then the YAML config file, then
// defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("daily-habits", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (sqlite file path or postgres URL)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.ConfigFile, "c", "", "YAML config file")
	fs.StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")
	fs.BoolVar(&cfg.Notifications, "notifications", true, "Allow notifications")
	fs.BoolVar(&cfg.Chime, "chime", true, "Ring the terminal bell when a timer completes")
	fs.BoolVar(&cfg.UI, "ui", false, "Run the terminal UI instead of the HTTP server")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Write logs to this file instead of stderr")
	fs.StringVar(&cfg.ExportDir, "export-dir", "", "Directory the terminal UI writes backups to")
	fs.DurationVar(&cfg.TickInterval, "tick", 0, "Timer tick interval")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("HABITS_CONFIG")
	}
	var file fileConfig
	if cfg.ConfigFile != "" {
		loaded, err := loadFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, err
		}
		file = loaded
	}

	// Port
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else if file.Port != nil {
			cfg.Port = *file.Port
		} else {
			cfg.Port = DefaultPort
		}
	}

	// Database
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = firstNonEmpty(os.Getenv("DATABASE_TYPE"), file.Database.Type, "sqlite")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = firstNonEmpty(os.Getenv("DATABASE_URL"), file.Database.URL)
	}
	switch cfg.DatabaseType {
	case "sqlite":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = DefaultDatabaseURL
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	default:
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	// Switches
	if !set["notifications"] {
		v, err := boolSetting("NOTIFICATIONS", file.Notifications, true)
		if err != nil {
			return Config{}, err
		}
		cfg.Notifications = v
	}
	if !set["chime"] {
		v, err := boolSetting("CHIME", file.Chime, true)
		if err != nil {
			return Config{}, err
		}
		cfg.Chime = v
	}

	// Logging
	if cfg.LogLevel == "" {
		cfg.LogLevel = firstNonEmpty(os.Getenv("LOG_LEVEL"), file.LogLevel, "info")
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	if cfg.LogFile == "" {
		cfg.LogFile = firstNonEmpty(os.Getenv("LOG_FILE"), file.LogFile)
	}

	if cfg.ExportDir == "" {
		cfg.ExportDir = firstNonEmpty(os.Getenv("EXPORT_DIR"), file.ExportDir, ".")
	}

	// Tick
	if cfg.TickInterval == 0 {
		raw := firstNonEmpty(os.Getenv("TICK_INTERVAL"), file.TickInterval)
		if raw == "" {
			cfg.TickInterval = time.Second
		} else {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return Config{}, fmt.Errorf("invalid tick interval %q: %w", raw, err)
			}
			cfg.TickInterval = d
		}
	}
	if cfg.TickInterval <= 0 {
		return Config{}, errors.New("tick interval must be positive")
	}

	return cfg, nil
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func loadFile(path string) (fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil {
		return fileConfig{}, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return fc, nil
}

func boolSetting(env string, fromFile *bool, def bool) (bool, error) {
	if raw := os.Getenv(env); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return false, fmt.Errorf("invalid %s env variable", env)
		}
		return v, nil
	}
	if fromFile != nil {
		return *fromFile, nil
	}
	return def, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
