// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/daily-habits/backup"
	"github.com/danielhkuo/daily-habits/habits"
	"github.com/danielhkuo/daily-habits/models"
	"github.com/danielhkuo/daily-habits/notify"
	"github.com/danielhkuo/daily-habits/testutil"
	"github.com/danielhkuo/daily-habits/timer"
)

type fixture struct {
	store *habits.Store
	timer *timer.Controller
	clock *testutil.FixedClock
	dir   string
}

func noTicks(time.Duration) (<-chan time.Time, func()) {
	return nil, func() {}
}

func newFixture(t *testing.T) (Model, *fixture) {
	t.Helper()

	clock := testutil.NewFixedClock(time.Date(2024, 3, 9, 8, 30, 0, 0, time.Local))
	store := habits.NewStore(&testutil.MemPersister{}, habits.WithClock(clock.Now))
	require.NoError(t, store.Load(context.Background()))

	ctl := timer.NewController(store, timer.WithTickSource(noTicks))
	store.OnChange(ctl.Reconcile)
	t.Cleanup(ctl.Close)

	dir := t.TempDir()
	m := New(store, ctl, WithExportDir(dir))
	return m, &fixture{store: store, timer: ctl, clock: clock, dir: dir}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends the keys in order and returns the model and the last command.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Model)
	}
	return m, cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func refreshed(m Model) Model {
	next, _ := m.Update(refreshMsg{})
	return next.(Model)
}

func TestAddHabitFlow(t *testing.T) {
	m, f := newFixture(t)
	assert.Contains(t, m.View(), "Add your daily habits in the habit library.")

	m, _ = press(t, m, "a", "Read", "enter", "15")
	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)

	got := f.store.Habits()
	require.Len(t, got, 1)
	assert.Equal(t, "Read", got[0].Name)
	assert.Equal(t, 15, got[0].Duration)
	assert.Equal(t, `Added "Read".`, m.status)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Contains(t, m.View(), "[ ] Read (15 min)")
}

func TestAddHabitRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		habit   string
		minutes string
	}{
		{"empty name", "   ", "10"},
		{"zero minutes", "Walk", "0"},
		{"not a number", "Walk", "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, f := newFixture(t)

			m, _ = press(t, m, "a", tt.habit, "enter", tt.minutes)
			m, cmd := press(t, m, "enter")
			m = run(t, m, cmd)

			assert.Empty(t, f.store.Habits())
			assert.Equal(t, InvalidHabitMessage, m.status)
		})
	}
}

func TestEscCancelsInput(t *testing.T) {
	m, f := newFixture(t)

	m, _ = press(t, m, "a", "Read", "esc")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, CancelledMessage, m.status)
	assert.Empty(t, f.store.Habits())
}

func TestStartAndStopTimer(t *testing.T) {
	m, f := newFixture(t)
	_, err := f.store.AddHabit(context.Background(), "Read", 20)
	require.NoError(t, err)
	_, err = f.store.AddHabit(context.Background(), "Walk", 5)
	require.NoError(t, err)
	m = refreshed(m)

	m, _ = press(t, m, "down")
	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)

	state := f.timer.State()
	require.True(t, state.Active)
	assert.Equal(t, 300, state.TotalSeconds)
	assert.Equal(t, models.ModeTimer, m.page.Mode)
	assert.Contains(t, m.View(), "05:00")

	// The timer page offers no start
	m, cmd = press(t, m, "s")
	assert.Nil(t, cmd)
	assert.Equal(t, 300, f.timer.State().RemainingSeconds)

	m, cmd = press(t, m, "x")
	m = run(t, m, cmd)
	assert.False(t, f.timer.State().Active)
	assert.Equal(t, models.ModeList, m.page.Mode)
}

func TestCompletedHabitCannotStart(t *testing.T) {
	m, f := newFixture(t)
	habit, err := f.store.AddHabit(context.Background(), "Read", 20)
	require.NoError(t, err)
	_, err = f.store.MarkComplete(context.Background(), habit.ID)
	require.NoError(t, err)
	m = refreshed(m)

	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	_, cmd = press(t, m, "s")
	assert.Nil(t, cmd)
	assert.False(t, f.timer.State().Active)
}

func TestTimerProgressRefresh(t *testing.T) {
	m, f := newFixture(t)
	habit, err := f.store.AddHabit(context.Background(), "Stretch", 1)
	require.NoError(t, err)
	_, err = f.timer.Start(habit.ID)
	require.NoError(t, err)

	for i := 0; i < 45; i++ {
		f.timer.Tick()
	}
	m = refreshed(m)

	assert.Equal(t, "00:15", m.page.Timer.Display)
	assert.Equal(t, "00:15 - focusing", m.page.Title)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, f := newFixture(t)
	habit, err := f.store.AddHabit(context.Background(), "Read", 20)
	require.NoError(t, err)
	m = refreshed(m)

	m, cmd := press(t, m, "d")
	m = run(t, m, cmd)
	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), habits.DeletePrompt)

	m, _ = press(t, m, "n")
	assert.Equal(t, CancelledMessage, m.status)
	_, ok := f.store.Habit(habit.ID)
	assert.True(t, ok)

	m, cmd = press(t, m, "d")
	m = run(t, m, cmd)
	m, cmd = press(t, m, "y")
	m = run(t, m, cmd)

	assert.Empty(t, f.store.Habits())
	assert.Equal(t, "Habit deleted.", m.status)
	assert.Equal(t, "No habits yet", m.page.ManageEmpty)
}

func TestResetToday(t *testing.T) {
	m, f := newFixture(t)
	habit, err := f.store.AddHabit(context.Background(), "Read", 20)
	require.NoError(t, err)
	_, err = f.store.MarkComplete(context.Background(), habit.ID)
	require.NoError(t, err)
	m = refreshed(m)
	assert.Contains(t, m.View(), "[x] Read (20 min)")

	m, cmd := press(t, m, "r")
	m = run(t, m, cmd)
	assert.Contains(t, m.View(), habits.ResetPrompt("2024/03/09"))

	m, cmd = press(t, m, "y")
	m = run(t, m, cmd)

	assert.False(t, f.store.IsCompletedToday(habit.ID))
	assert.Contains(t, m.View(), "[ ] Read (20 min)")
}

func TestExportThenImport(t *testing.T) {
	m, f := newFixture(t)
	habit, err := f.store.AddHabit(context.Background(), "Read", 20)
	require.NoError(t, err)
	_, err = f.store.MarkComplete(context.Background(), habit.ID)
	require.NoError(t, err)
	m = refreshed(m)

	m, cmd := press(t, m, "e")
	m = run(t, m, cmd)

	path := filepath.Join(f.dir, backup.Filename(f.clock.Now()))
	assert.True(t, strings.HasPrefix(m.status, "Exported to "+path))
	exported := f.store.Snapshot()

	// Change the store, then restore from the exported file
	_, err = f.store.AddHabit(context.Background(), "Walk", 30)
	require.NoError(t, err)

	m, _ = press(t, m, "i", path)
	m, cmd = press(t, m, "enter")
	m = run(t, m, cmd)
	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), habits.ImportPrompt)

	m, cmd = press(t, m, "y")
	m = run(t, m, cmd)

	assert.Equal(t, "Data imported.", m.status)
	assert.Equal(t, exported, f.store.Snapshot())
}

func TestImportRejectsBadFile(t *testing.T) {
	m, f := newFixture(t)
	_, err := f.store.AddHabit(context.Background(), "Read", 20)
	require.NoError(t, err)

	path := filepath.Join(f.dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"habits":{},"completionLog":{}}`), 0o644))

	m, _ = press(t, m, "i", path)
	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)

	assert.Equal(t, modeBrowse, m.mode)
	assert.True(t, strings.HasPrefix(m.status, ImportFailedMessage))
	assert.Len(t, f.store.Habits(), 1)
}

func TestNotificationShowsInStatus(t *testing.T) {
	m, _ := newFixture(t)

	next, _ := m.Update(noteMsg(notify.Info("Today's check-ins have been cleared.")))
	m = next.(Model)

	assert.Equal(t, "Today's check-ins have been cleared.", m.status)
}

func TestChangeHookSignals(t *testing.T) {
	m, f := newFixture(t)

	_, err := f.store.AddHabit(context.Background(), "Read", 20)
	require.NoError(t, err)

	msg := waitForChange(m.changes)()
	assert.Equal(t, refreshMsg{}, msg)
}
