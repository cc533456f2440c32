// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/daily-habits/habits"
	"github.com/danielhkuo/daily-habits/handlers"
	"github.com/danielhkuo/daily-habits/middleware"
	"github.com/danielhkuo/daily-habits/notify"
	"github.com/danielhkuo/daily-habits/timer"
)

// Deps are the components the API serves
type Deps struct {
	Store    *habits.Store
	Timer    *timer.Controller
	Hub      *notify.Hub
	Notifier notify.Notifier
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	habitHandler := handlers.NewHabitHandler(deps.Store, deps.Notifier)
	timerHandler := handlers.NewTimerHandler(deps.Timer)
	backupHandler := handlers.NewBackupHandler(deps.Store, deps.Notifier)
	viewHandler := handlers.NewViewHandler(deps.Store, deps.Timer, deps.Hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Rendered page and notifications
	mux.HandleFunc("GET /view", middleware.WithLogging(viewHandler.GetView))
	mux.HandleFunc("GET /events", middleware.WithLogging(viewHandler.Events))

	// Habit management
	mux.HandleFunc("GET /habits", middleware.WithLogging(habitHandler.ListHabits))
	mux.HandleFunc("POST /habits", middleware.WithLogging(habitHandler.AddHabit))
	mux.HandleFunc("DELETE /habits/{id}", middleware.WithLogging(habitHandler.DeleteHabit))
	mux.HandleFunc("POST /habits/reset-today", middleware.WithLogging(habitHandler.ResetToday))

	// Timer
	mux.HandleFunc("GET /timer", middleware.WithLogging(timerHandler.GetTimer))
	mux.HandleFunc("POST /timer/start", middleware.WithLogging(timerHandler.StartTimer))
	mux.HandleFunc("POST /timer/stop", middleware.WithLogging(timerHandler.StopTimer))

	// Import / export
	mux.HandleFunc("GET /export", middleware.WithLogging(backupHandler.Export))
	mux.HandleFunc("POST /import", middleware.WithLogging(backupHandler.Import))

	// Metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("daily-habits API v1"))
	})

	return mux
}
