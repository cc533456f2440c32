// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/daily-habits/db"
	"github.com/danielhkuo/daily-habits/habits"
	"github.com/danielhkuo/daily-habits/models"
	"github.com/danielhkuo/daily-habits/notify"
	"github.com/danielhkuo/daily-habits/testutil"
	"github.com/danielhkuo/daily-habits/timer"
)

// testEnv holds the components a handler test drives
type testEnv struct {
	store *habits.Store
	timer *timer.Controller
	hub   *notify.Hub
	clock *testutil.FixedClock
	sent  *sentNotifications
}

type sentNotifications struct {
	mu    sync.Mutex
	items []models.Notification
}

func (s *sentNotifications) Notify(n models.Notification) {
	s.mu.Lock()
	s.items = append(s.items, n)
	s.mu.Unlock()
}

func (s *sentNotifications) bodies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, n := range s.items {
		out = append(out, n.Body)
	}
	return out
}

func noTicks(time.Duration) (<-chan time.Time, func()) {
	return nil, func() {}
}

// setupTestEnv builds a store backed by a sqlite test database and a
// manually ticked timer
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	clock := testutil.NewFixedClock(time.Date(2024, 3, 9, 10, 0, 0, 0, time.Local))

	ids := 0
	store := habits.NewStore(db.NewKVStore(conn),
		habits.WithClock(clock.Now),
		habits.WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("habit-%d", ids)
		}),
	)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}

	sent := &sentNotifications{}
	ctl := timer.NewController(store, timer.WithNotifier(sent), timer.WithTickSource(noTicks))
	store.OnChange(ctl.Reconcile)
	t.Cleanup(ctl.Close)

	return &testEnv{
		store: store,
		timer: ctl,
		hub:   notify.NewHub(4),
		clock: clock,
		sent:  sent,
	}
}

func (e *testEnv) addHabit(t *testing.T, name string, duration int) models.Habit {
	t.Helper()
	habit, err := e.store.AddHabit(context.Background(), name, duration)
	if err != nil {
		t.Fatalf("Failed to add habit: %v", err)
	}
	return habit
}

func (e *testEnv) complete(t *testing.T, id string) {
	t.Helper()
	if _, err := e.store.MarkComplete(context.Background(), id); err != nil {
		t.Fatalf("Failed to mark complete: %v", err)
	}
}
