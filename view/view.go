// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package view turns store and timer state into a renderable page.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/daily-habits/models"
)

const (
	AppTitle         = "Daily Habits"
	EmptyListMessage = "Add your daily habits in the habit library."
	EmptyManageLabel = "No habits yet"
)

// Input is everything the renderer needs. It is plain data; Render does not
// read clocks or stores.
type Input struct {
	Habits []models.Habit
	Log    models.CompletionLog
	Timer  models.TimerState
	Today  string
	Now    time.Time
}

type HabitRow struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Duration       int    `json:"duration"`
	CompletedToday bool   `json:"completed_today"`
	CanStart       bool   `json:"can_start"`
}

type ManageRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Label    string `json:"label"`
}

type TimerView struct {
	HabitID         string  `json:"habit_id"`
	HabitName       string  `json:"habit_name"`
	Display         string  `json:"display"`
	ProgressPercent float64 `json:"progress_percent"`
	Remaining       int     `json:"remaining_seconds"`
	Total           int     `json:"total_seconds"`
}

type Page struct {
	Mode         string      `json:"mode"`
	Title        string      `json:"title"`
	DateBanner   string      `json:"date_banner"`
	Timer        *TimerView  `json:"timer,omitempty"`
	List         []HabitRow  `json:"list,omitempty"`
	EmptyMessage string      `json:"empty_message,omitempty"`
	Manage       []ManageRow `json:"manage"`
	ManageEmpty  string      `json:"manage_empty,omitempty"`
}

// StoreReader is the part of the habit store the renderer reads.
type StoreReader interface {
	Snapshot() models.Backup
	Today() string
	Now() time.Time
}

// TimerReader exposes the current countdown.
type TimerReader interface {
	State() models.TimerState
}

// Capture collects an Input from the live store and timer.
func Capture(store StoreReader, timer TimerReader) Input {
	snap := store.Snapshot()
	return Input{
		Habits: snap.Habits,
		Log:    snap.CompletionLog,
		Timer:  timer.State(),
		Today:  store.Today(),
		Now:    store.Now(),
	}
}

// Render builds the page for the given state. Equal input gives an equal page.
func Render(in Input) Page {
	page := Page{
		Title:      AppTitle,
		DateBanner: DateBanner(in.Now),
		Manage:     manageRows(in.Habits),
	}
	if len(page.Manage) == 0 {
		page.ManageEmpty = EmptyManageLabel
	}

	if in.Timer.Active {
		if tv, ok := timerView(in); ok {
			page.Mode = models.ModeTimer
			page.Timer = &tv
			page.Title = tv.Display + " - focusing"
			return page
		}
	}

	page.Mode = models.ModeList
	page.List = listRows(in)
	if len(page.List) == 0 {
		page.EmptyMessage = EmptyListMessage
	}
	return page
}

func timerView(in Input) (TimerView, bool) {
	for _, h := range in.Habits {
		if h.ID != in.Timer.HabitID {
			continue
		}
		return TimerView{
			HabitID:         h.ID,
			HabitName:       h.Name,
			Display:         FormatClock(in.Timer.RemainingSeconds),
			ProgressPercent: Progress(in.Timer) * 100,
			Remaining:       in.Timer.RemainingSeconds,
			Total:           in.Timer.TotalSeconds,
		}, true
	}
	return TimerView{}, false
}

func listRows(in Input) []HabitRow {
	rows := make([]HabitRow, 0, len(in.Habits))
	for _, h := range in.Habits {
		done := in.Log.Contains(h.ID, in.Today)
		rows = append(rows, HabitRow{
			ID:             h.ID,
			Name:           h.Name,
			Duration:       h.Duration,
			CompletedToday: done,
			CanStart:       !done,
		})
	}
	return rows
}

func manageRows(habits []models.Habit) []ManageRow {
	rows := make([]ManageRow, 0, len(habits))
	for _, h := range habits {
		rows = append(rows, ManageRow{
			ID:       h.ID,
			Name:     h.Name,
			Duration: h.Duration,
			Label:    fmt.Sprintf("%s (%d min)", h.Name, h.Duration),
		})
	}
	return rows
}

// FormatClock formats seconds as mm:ss. Negative values show 00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Progress is elapsed/total in [0, 1].
func Progress(t models.TimerState) float64 {
	if t.TotalSeconds <= 0 {
		return 0
	}
	remaining := t.RemainingSeconds
	if remaining < 0 {
		remaining = 0
	}
	p := float64(t.TotalSeconds-remaining) / float64(t.TotalSeconds)
	if p > 1 {
		return 1
	}
	return p
}

// DateBanner is the long form of the date, e.g. "Monday, January 15, 2024".
func DateBanner(now time.Time) string {
	if now.IsZero() {
		return ""
	}
	return now.Format("Monday, January 2, 2006")
}

// Text renders the page as plain text.
func Text(p Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", p.Title, p.DateBanner)

	if p.Mode == models.ModeTimer && p.Timer != nil {
		fmt.Fprintf(&b, "%s\n%s  %3.0f%%\n", p.Timer.HabitName, p.Timer.Display, p.Timer.ProgressPercent)
	} else if p.EmptyMessage != "" {
		fmt.Fprintf(&b, "%s\n", p.EmptyMessage)
	} else {
		for _, row := range p.List {
			mark := "[ ]"
			if row.CompletedToday {
				mark = "[x]"
			}
			fmt.Fprintf(&b, "%s %s (%d min)\n", mark, row.Name, row.Duration)
		}
	}

	b.WriteString("\nHabit library\n")
	if p.ManageEmpty != "" {
		fmt.Fprintf(&b, "  %s\n", p.ManageEmpty)
	}
	for _, row := range p.Manage {
		fmt.Fprintf(&b, "  %s\n", row.Label)
	}
	return b.String()
}
