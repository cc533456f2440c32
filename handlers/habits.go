// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/daily-habits/habits"
	"github.com/danielhkuo/daily-habits/middleware"
	"github.com/danielhkuo/daily-habits/models"
	"github.com/danielhkuo/daily-habits/notify"
)

type HabitHandler struct {
	store    *habits.Store
	notifier notify.Notifier
}

func NewHabitHandler(store *habits.Store, notifier notify.Notifier) *HabitHandler {
	return &HabitHandler{store: store, notifier: notifier}
}

// ListHabits handles GET /habits
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	today := h.store.Today()

	summaries := make([]models.HabitSummary, 0, len(snap.Habits))
	for _, habit := range snap.Habits {
		summaries = append(summaries, models.HabitSummary{
			Habit:          habit,
			CompletedToday: snap.CompletionLog.Contains(habit.ID, today),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListHabitsResponse{
		Date:   today,
		Habits: summaries,
	})
}

// AddHabit handles POST /habits
func (h *HabitHandler) AddHabit(w http.ResponseWriter, r *http.Request) {
	var req models.AddHabitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	habit, err := h.store.AddHabit(r.Context(), req.Name, req.Duration)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddHabitResponse{Habit: habit})
}

// DeleteHabit handles DELETE /habits/{id}?confirm=true
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "habit id is required")
		return
	}

	confirm := confirmFrom(r)
	if err := h.store.DeleteHabit(r.Context(), id, confirm); err != nil {
		writeError(w, err, confirm)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResetToday handles POST /habits/reset-today?confirm=true
func (h *HabitHandler) ResetToday(w http.ResponseWriter, r *http.Request) {
	confirm := confirmFrom(r)
	removed, err := h.store.ResetToday(r.Context(), confirm)
	if err != nil {
		writeError(w, err, confirm)
		return
	}

	h.notifier.Notify(notify.Info("Today's check-ins have been cleared."))
	middleware.JSONResponse(w, http.StatusOK, models.ResetTodayResponse{
		Date:    h.store.Today(),
		Removed: removed,
	})
}
