// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/daily-habits/backup"
	"github.com/danielhkuo/daily-habits/habits"
	"github.com/danielhkuo/daily-habits/middleware"
	"github.com/danielhkuo/daily-habits/models"
	"github.com/danielhkuo/daily-habits/timer"
)

// requestConfirmer approves when the request carries confirm=true and
// remembers the prompt it was asked.
type requestConfirmer struct {
	approved bool
	prompt   string
}

func (c *requestConfirmer) Confirm(prompt string) bool {
	c.prompt = prompt
	return c.approved
}

func confirmFrom(r *http.Request) *requestConfirmer {
	approved, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return &requestConfirmer{approved: approved}
}

// writeError maps domain errors to HTTP responses
func writeError(w http.ResponseWriter, err error, c *requestConfirmer) {
	switch {
	case errors.Is(err, habits.ErrNotConfirmed):
		prompt := ""
		if c != nil {
			prompt = c.prompt
		}
		middleware.JSONResponse(w, http.StatusPreconditionRequired, models.ConfirmationResponse{
			Error:  "confirmation required; repeat the request with confirm=true",
			Prompt: prompt,
		})
	case errors.Is(err, habits.ErrEmptyName),
		errors.Is(err, habits.ErrInvalidDuration),
		errors.Is(err, backup.ErrMalformed),
		errors.Is(err, backup.ErrInvalidShape):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, habits.ErrHabitNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Habit not found")
	case errors.Is(err, timer.ErrTimerActive),
		errors.Is(err, timer.ErrTimerIdle):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
	}
}
