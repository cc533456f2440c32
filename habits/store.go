// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package habits owns the habit list and the per-day completion log.
package habits

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/daily-habits/metrics"
	"github.com/danielhkuo/daily-habits/models"
)

var (
	ErrEmptyName       = errors.New("habit name is required")
	ErrInvalidDuration = errors.New("duration must be at least 1 minute")
	ErrHabitNotFound   = errors.New("habit not found")
	ErrNotConfirmed    = errors.New("operation not confirmed")
)

// Persister loads and saves the full state.
type Persister interface {
	Load(ctx context.Context) (models.Backup, error)
	Save(ctx context.Context, state models.Backup) error
}

// Store owns the habit list and completion log. Every mutation is persisted
// before it becomes visible; a failed save leaves the previous state in place.
type Store struct {
	mu        sync.Mutex
	persister Persister
	habits    []models.Habit
	log       models.CompletionLog
	now       func() time.Time
	newID     func() string
	hooks     []func()
}

type Option func(*Store)

// WithClock overrides the clock used to compute today's date.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides habit id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		habits:    []models.Habit{},
		log:       models.CompletionLog{},
		now:       time.Now,
		newID:     func() string { return "habit-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers fn to run after every successful mutation.
// Hooks run outside the store lock.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.hooks = append(s.hooks, fn)
	s.mu.Unlock()
}

func (s *Store) changed() {
	s.mu.Lock()
	hooks := append([]func(){}, s.hooks...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Load replaces in-memory state with what the persister holds.
func (s *Store) Load(ctx context.Context) error {
	state, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	s.mu.Lock()
	s.habits, s.log = normalize(state)
	count := len(s.habits)
	s.mu.Unlock()

	slog.Info("habits loaded", "count", count)
	return nil
}

// commit persists the candidate state and installs it on success.
// Caller holds s.mu.
func (s *Store) commit(ctx context.Context, habits []models.Habit, log models.CompletionLog) error {
	if err := s.persister.Save(ctx, models.Backup{Habits: habits, CompletionLog: log}); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	s.habits = habits
	s.log = log
	return nil
}

// Today returns today's date key.
func (s *Store) Today() string {
	return s.now().Format(models.DateLayout)
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// AddHabit validates and appends a new habit.
func (s *Store) AddHabit(ctx context.Context, name string, duration int) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, ErrEmptyName
	}
	if duration < 1 {
		return models.Habit{}, ErrInvalidDuration
	}

	habit := models.Habit{ID: s.newID(), Name: name, Duration: duration}

	s.mu.Lock()
	habits := append(append(make([]models.Habit, 0, len(s.habits)+1), s.habits...), habit)
	err := s.commit(ctx, habits, s.log)
	s.mu.Unlock()
	if err != nil {
		return models.Habit{}, err
	}

	metrics.HabitOperations.WithLabelValues("add").Inc()
	slog.Info("habit added", "habit_id", habit.ID, "name", habit.Name, "duration", habit.Duration)
	s.changed()
	return habit, nil
}

// DeleteHabit removes the habit and all of its completion history.
func (s *Store) DeleteHabit(ctx context.Context, id string, confirm Confirmer) error {
	if _, ok := s.Habit(id); !ok {
		return ErrHabitNotFound
	}
	if !confirm.Confirm(DeletePrompt) {
		return ErrNotConfirmed
	}

	s.mu.Lock()
	// Imported data may repeat an id; every habit sharing it goes.
	habits := make([]models.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		if h.ID != id {
			habits = append(habits, h)
		}
	}
	if len(habits) == len(s.habits) {
		s.mu.Unlock()
		return ErrHabitNotFound
	}

	log := s.log.Clone()
	delete(log, id)

	err := s.commit(ctx, habits, log)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	metrics.HabitOperations.WithLabelValues("delete").Inc()
	slog.Info("habit deleted", "habit_id", id)
	s.changed()
	return nil
}

// IsCompletedToday reports whether today's date is logged for the habit.
func (s *Store) IsCompletedToday(id string) bool {
	today := s.Today()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Contains(id, today)
}

// MarkComplete logs today for the habit. It is idempotent: added is false
// and nothing is persisted when today is already present.
func (s *Store) MarkComplete(ctx context.Context, id string) (added bool, err error) {
	today := s.Today()

	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return false, ErrHabitNotFound
	}
	if s.log.Contains(id, today) {
		s.mu.Unlock()
		return false, nil
	}

	log := s.log.Clone()
	log[id] = append(log[id], today)
	err = s.commit(ctx, s.habits, log)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	slog.Info("habit completed", "habit_id", id, "date", today)
	s.changed()
	return true, nil
}

// ResetToday removes today's entry from every habit's history and returns
// how many entries were removed. Other dates are untouched.
func (s *Store) ResetToday(ctx context.Context, confirm Confirmer) (int, error) {
	today := s.Today()
	if !confirm.Confirm(ResetPrompt(today)) {
		return 0, ErrNotConfirmed
	}

	s.mu.Lock()
	removed := 0
	log := make(models.CompletionLog, len(s.log))
	for id, dates := range s.log {
		kept := make([]string, 0, len(dates))
		for _, d := range dates {
			if d == today {
				removed++
				continue
			}
			kept = append(kept, d)
		}
		log[id] = kept
	}
	err := s.commit(ctx, s.habits, log)
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}

	metrics.HabitOperations.WithLabelValues("reset_today").Inc()
	slog.Info("today's completions cleared", "date", today, "removed", removed)
	s.changed()
	return removed, nil
}

// Replace overwrites the whole store with an imported state.
func (s *Store) Replace(ctx context.Context, state models.Backup, confirm Confirmer) error {
	if !confirm.Confirm(ImportPrompt) {
		return ErrNotConfirmed
	}

	habits, log := normalize(state)

	s.mu.Lock()
	err := s.commit(ctx, habits, log)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	metrics.HabitOperations.WithLabelValues("replace").Inc()
	slog.Info("store replaced", "habits", len(habits))
	s.changed()
	return nil
}

// Habits returns a copy of the habit list in insertion order.
func (s *Store) Habits() []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Habit{}, s.habits...)
}

// Habit looks up a habit by id.
func (s *Store) Habit(id string) (models.Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.habits[idx], true
	}
	return models.Habit{}, false
}

// Snapshot returns a deep copy of the full state.
func (s *Store) Snapshot() models.Backup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Backup{
		Habits:        append([]models.Habit{}, s.habits...),
		CompletionLog: s.log.Clone(),
	}
}

func (s *Store) indexLocked(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func normalize(state models.Backup) ([]models.Habit, models.CompletionLog) {
	habits := append([]models.Habit{}, state.Habits...)
	log := state.CompletionLog.Clone()
	return habits, log
}
