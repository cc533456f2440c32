// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/daily-habits/habits"
	"github.com/danielhkuo/daily-habits/models"
	"github.com/danielhkuo/daily-habits/testutil"
)

func TestAddHabit(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewHabitHandler(env.store, env.sent)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"valid habit", models.AddHabitRequest{Name: "Read", Duration: 20}, http.StatusCreated},
		{"name is trimmed", models.AddHabitRequest{Name: "  Stretch  ", Duration: 5}, http.StatusCreated},
		{"empty name", models.AddHabitRequest{Name: "   ", Duration: 10}, http.StatusBadRequest},
		{"zero duration", models.AddHabitRequest{Name: "Walk", Duration: 0}, http.StatusBadRequest},
		{"negative duration", models.AddHabitRequest{Name: "Walk", Duration: -3}, http.StatusBadRequest},
		{"invalid json", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/habits", tt.body, nil)
			w := httptest.NewRecorder()

			handler.AddHabit(w, req)

			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}

	got := env.store.Habits()
	if len(got) != 2 {
		t.Fatalf("Expected 2 habits, got %d", len(got))
	}
	if got[1].Name != "Stretch" {
		t.Errorf("Expected trimmed name 'Stretch', got %q", got[1].Name)
	}
}

func TestAddHabitResponse(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewHabitHandler(env.store, env.sent)

	req := testutil.MakeRequest("POST", "/habits", models.AddHabitRequest{Name: "Meditate", Duration: 10}, nil)
	w := httptest.NewRecorder()
	handler.AddHabit(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.AddHabitResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Habit.ID == "" {
		t.Error("Expected habit ID to be set")
	}
	if resp.Habit.Name != "Meditate" || resp.Habit.Duration != 10 {
		t.Errorf("Unexpected habit: %+v", resp.Habit)
	}
}

func TestListHabits(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewHabitHandler(env.store, env.sent)

	read := env.addHabit(t, "Read", 20)
	env.addHabit(t, "Walk", 30)
	env.complete(t, read.ID)

	req := testutil.MakeRequest("GET", "/habits", nil, nil)
	w := httptest.NewRecorder()
	handler.ListHabits(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ListHabitsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Date != "2024/03/09" {
		t.Errorf("Expected date 2024/03/09, got %s", resp.Date)
	}
	if len(resp.Habits) != 2 {
		t.Fatalf("Expected 2 habits, got %d", len(resp.Habits))
	}
	if !resp.Habits[0].CompletedToday {
		t.Error("Expected Read to be completed today")
	}
	if resp.Habits[1].CompletedToday {
		t.Error("Expected Walk to be pending")
	}
}

func TestListHabitsEmpty(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewHabitHandler(env.store, env.sent)

	req := testutil.MakeRequest("GET", "/habits", nil, nil)
	w := httptest.NewRecorder()
	handler.ListHabits(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if got := w.Body.String(); got != `{"date":"2024/03/09","habits":[]}`+"\n" {
		t.Errorf("Unexpected body: %s", got)
	}
}

func TestDeleteHabit(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewHabitHandler(env.store, env.sent)

	read := env.addHabit(t, "Read", 20)
	walk := env.addHabit(t, "Walk", 30)
	env.complete(t, read.ID)
	env.complete(t, walk.ID)

	t.Run("without confirmation", func(t *testing.T) {
		req := testutil.MakeRequest("DELETE", "/habits/"+read.ID, nil, nil)
		req.SetPathValue("id", read.ID)
		w := httptest.NewRecorder()

		handler.DeleteHabit(w, req)

		testutil.AssertStatus(t, w, http.StatusPreconditionRequired)

		var resp models.ConfirmationResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Prompt != habits.DeletePrompt {
			t.Errorf("Expected delete prompt, got %q", resp.Prompt)
		}
		if len(env.store.Habits()) != 2 {
			t.Error("Habit should not be deleted without confirmation")
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		req := testutil.MakeRequest("DELETE", "/habits/"+read.ID+"?confirm=true", nil, nil)
		req.SetPathValue("id", read.ID)
		w := httptest.NewRecorder()

		handler.DeleteHabit(w, req)

		testutil.AssertStatus(t, w, http.StatusNoContent)

		snap := env.store.Snapshot()
		if len(snap.Habits) != 1 || snap.Habits[0].ID != walk.ID {
			t.Fatalf("Expected only Walk to remain, got %+v", snap.Habits)
		}
		if snap.CompletionLog.Contains(read.ID, "2024/03/09") {
			t.Error("Deleted habit should be purged from the log")
		}
		if !snap.CompletionLog.Contains(walk.ID, "2024/03/09") {
			t.Error("Other habits' history should be kept")
		}
	})

	t.Run("unknown habit", func(t *testing.T) {
		req := testutil.MakeRequest("DELETE", "/habits/habit-missing?confirm=true", nil, nil)
		req.SetPathValue("id", "habit-missing")
		w := httptest.NewRecorder()

		handler.DeleteHabit(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestResetToday(t *testing.T) {
	env := setupTestEnv(t)
	handler := NewHabitHandler(env.store, env.sent)

	read := env.addHabit(t, "Read", 20)
	env.complete(t, read.ID)

	req := testutil.MakeRequest("POST", "/habits/reset-today", nil, nil)
	w := httptest.NewRecorder()
	handler.ResetToday(w, req)

	testutil.AssertStatus(t, w, http.StatusPreconditionRequired)
	if !env.store.IsCompletedToday(read.ID) {
		t.Fatal("Reset without confirmation should change nothing")
	}

	req = testutil.MakeRequest("POST", "/habits/reset-today?confirm=true", nil, nil)
	w = httptest.NewRecorder()
	handler.ResetToday(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResetTodayResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Removed != 1 {
		t.Errorf("Expected 1 removed check-in, got %d", resp.Removed)
	}
	if env.store.IsCompletedToday(read.ID) {
		t.Error("Expected today's check-in to be cleared")
	}

	bodies := env.sent.bodies()
	if len(bodies) != 1 || bodies[0] != "Today's check-ins have been cleared." {
		t.Errorf("Unexpected notifications: %v", bodies)
	}
}
