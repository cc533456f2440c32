// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/daily-habits/middleware"
	"github.com/danielhkuo/daily-habits/models"
	"github.com/danielhkuo/daily-habits/timer"
	"github.com/danielhkuo/daily-habits/view"
)

type TimerHandler struct {
	timer *timer.Controller
}

func NewTimerHandler(ctl *timer.Controller) *TimerHandler {
	return &TimerHandler{timer: ctl}
}

func (h *TimerHandler) response() models.TimerResponse {
	state, habit := h.timer.Current()
	return models.TimerResponse{
		Timer:           state,
		HabitName:       habit.Name,
		ProgressPercent: view.Progress(state) * 100,
	}
}

// GetTimer handles GET /timer
func (h *TimerHandler) GetTimer(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.response())
}

// StartTimer handles POST /timer/start
func (h *TimerHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	var req models.StartTimerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.HabitID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "habit_id is required")
		return
	}

	if _, err := h.timer.Start(req.HabitID); err != nil {
		writeError(w, err, nil)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, h.response())
}

// StopTimer handles POST /timer/stop
func (h *TimerHandler) StopTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.timer.Stop(); err != nil {
		writeError(w, err, nil)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.response())
}
