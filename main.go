package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/daily-habits/cliparse"
	"github.com/danielhkuo/daily-habits/db"
	"github.com/danielhkuo/daily-habits/habits"
	"github.com/danielhkuo/daily-habits/middleware"
	"github.com/danielhkuo/daily-habits/notify"
	"github.com/danielhkuo/daily-habits/router"
	"github.com/danielhkuo/daily-habits/timer"
	"github.com/danielhkuo/daily-habits/tui"
)

// defaultUILogFile keeps log output off the terminal UI
const defaultUILogFile = "daily-habits.log"

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logOut, err := openLog(cfg)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logOut.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliparse.Config) error {
	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store := habits.NewStore(db.NewKVStore(dbConn))
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	hub := notify.NewHub(16)
	dispatcher := notify.NewDispatcher(notify.LogSink{}, hub)
	dispatcher.RequestPermission(cfg.Notifications)

	var chime notify.Chime = notify.Silent{}
	if cfg.Chime {
		chime = notify.Bell{W: os.Stdout}
	}

	ctl := timer.NewController(store,
		timer.WithNotifier(dispatcher),
		timer.WithChime(chime),
		timer.WithInterval(cfg.TickInterval),
	)
	defer ctl.Close()
	store.OnChange(ctl.Reconcile)

	if cfg.UI {
		notes, cancel := hub.Subscribe()
		defer cancel()
		return tui.Run(ctx, tui.New(store, ctl,
			tui.WithNotifications(notes),
			tui.WithExportDir(cfg.ExportDir),
		))
	}

	mux := router.NewRouter(router.Deps{
		Store:    store,
		Timer:    ctl,
		Hub:      hub,
		Notifier: dispatcher,
	})
	return serve(ctx, cfg, middleware.CORS(mux))
}

func serve(ctx context.Context, cfg cliparse.Config, handler http.Handler) error {
	server := http.Server{
		Handler: handler,
		Addr:    ":" + strconv.Itoa(cfg.Port),
		// Event streams end with the server context
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	slog.Info("Server closed", "error", err)
	return err
}

func openLog(cfg cliparse.Config) (io.WriteCloser, error) {
	path := cfg.LogFile
	if path == "" && cfg.UI {
		path = defaultUILogFile
	}
	if path == "" {
		return nopCloser{os.Stderr}, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
