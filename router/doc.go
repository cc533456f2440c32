// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires HTTP routes to handlers using Go 1.22+ method patterns.

# Creating the Router

	mux := router.NewRouter(router.Deps{
		Store:    store,
		Timer:    ctl,
		Hub:      hub,
		Notifier: dispatcher,
	})

Wrap it with middleware.CORS so a page on a loopback origin can call it.

# Routes

	GET    /health                 liveness
	GET    /                       banner
	GET    /view                   rendered page (?format=text for plain text)
	GET    /events                 server-sent notifications
	GET    /habits                 habit list with completed_today
	POST   /habits                 add habit
	DELETE /habits/{id}            delete habit (confirm=true)
	POST   /habits/reset-today     clear today's check-ins (confirm=true)
	GET    /timer                  timer state
	POST   /timer/start            start countdown
	POST   /timer/stop             cancel countdown
	GET    /export                 download backup
	POST   /import                 replace all data (confirm=true)
	GET    /metrics                Prometheus metrics

All API routes except /health, / and /metrics go through
middleware.WithLogging.
*/
package router
