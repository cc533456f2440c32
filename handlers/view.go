// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/daily-habits/habits"
	"github.com/danielhkuo/daily-habits/middleware"
	"github.com/danielhkuo/daily-habits/notify"
	"github.com/danielhkuo/daily-habits/timer"
	"github.com/danielhkuo/daily-habits/view"
)

type ViewHandler struct {
	store *habits.Store
	timer *timer.Controller
	hub   *notify.Hub
}

func NewViewHandler(store *habits.Store, ctl *timer.Controller, hub *notify.Hub) *ViewHandler {
	return &ViewHandler{store: store, timer: ctl, hub: hub}
}

// GetView handles GET /view
// Returns the rendered page; ?format=text returns the plain-text rendering.
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	page := view.Render(view.Capture(h.store, h.timer))

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(view.Text(page)))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, page)
}

// Events handles GET /events
// Streams notifications as server-sent events until the client goes away.
func (h *ViewHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	events, cancel := h.hub.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case n, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, n.Kind, n); err != nil {
				slog.Debug("event stream closed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
