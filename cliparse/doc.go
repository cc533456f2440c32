// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: HTTP listen port (default: 3318)
  - DatabaseURL: sqlite file path or postgres URL (default: habits.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - ConfigFile: optional YAML file
  - Notifications: notification permission (default: true)
  - Chime: ring the terminal bell on completion (default: true)
  - UI: run the terminal UI instead of the HTTP server
  - LogLevel: debug, info, warn, error (default: info)
  - LogFile: log destination (default: stderr)
  - ExportDir: where the terminal UI writes backups (default: .)
  - TickInterval: countdown tick (default: 1s)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-c              YAML config file
	-env-file       dotenv file (default: .env, skipped when absent)
	-notifications  Allow notifications
	-chime          Completion bell
	-ui             Terminal UI
	-log-level      Log level
	-log-file       Log file
	-export-dir     Backup directory
	-tick           Tick interval

# Environment Variables

Flags fall back to environment variables, loaded from the dotenv file first:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	HABITS_CONFIG  → -c
	NOTIFICATIONS  → -notifications
	CHIME          → -chime
	LOG_LEVEL      → -log-level
	LOG_FILE       → -log-file
	EXPORT_DIR     → -export-dir
	TICK_INTERVAL  → -tick

# YAML File

	port: 3318
	database:
	  type: sqlite
	  url: habits.db
	notifications: true
	chime: true
	log_level: info
	log_file: ""
	export_dir: .
	tick_interval: 1s

CLI flags take precedence over environment variables, which take precedence
over the YAML file.

# Validation

ParseFlags returns an error if:

  - DatabaseType is not sqlite or postgres
  - postgres is selected without a DatabaseURL
  - PORT, a boolean variable, the log level or the tick interval is malformed
*/
package cliparse
