// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package notify delivers user-visible notifications and the completion chime.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/danielhkuo/daily-habits/models"
)

// Title is the heading of every notification.
const Title = "Habit reminder"

// Notifier delivers best-effort user-visible alerts.
type Notifier interface {
	Notify(n models.Notification)
}

// Sink receives notifications once permission is granted.
type Sink interface {
	Deliver(n models.Notification)
}

// Dispatcher gates delivery on a one-time permission decision and fans out
// to its sinks.
type Dispatcher struct {
	mu        sync.Mutex
	requested bool
	granted   bool
	sinks     []Sink
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

// RequestPermission records the permission decision. Only the first call
// counts; the returned value is the decision in effect.
func (d *Dispatcher) RequestPermission(allow bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.requested {
		return d.granted
	}
	d.requested = true
	d.granted = allow
	if !allow {
		slog.Info("notification permission denied; notifications disabled")
	}
	return d.granted
}

// Notify delivers n to every sink, or drops it silently without permission.
func (d *Dispatcher) Notify(n models.Notification) {
	d.mu.Lock()
	granted := d.granted
	sinks := d.sinks
	d.mu.Unlock()

	if !granted {
		return
	}
	if n.Title == "" {
		n.Title = Title
	}
	for _, s := range sinks {
		s.Deliver(n)
	}
}

// LogSink writes notifications to the structured log.
type LogSink struct{}

func (LogSink) Deliver(n models.Notification) {
	slog.Info("notification", "kind", n.Kind, "habit_id", n.HabitID, "body", n.Body)
}

// Discard is a Notifier that drops everything.
type Discard struct{}

func (Discard) Notify(models.Notification) {}

// Messages

func Started(habit models.Habit) models.Notification {
	return models.Notification{
		Kind:    models.KindStarted,
		Title:   Title,
		Body:    fmt.Sprintf("Started: %s, %d minutes.", habit.Name, habit.Duration),
		HabitID: habit.ID,
	}
}

func Completed(habit models.Habit) models.Notification {
	return models.Notification{
		Kind:    models.KindCompleted,
		Title:   Title,
		Body:    fmt.Sprintf("Well done! %q is checked off for today.", habit.Name),
		HabitID: habit.ID,
	}
}

func Cancelled(habit models.Habit) models.Notification {
	return models.Notification{
		Kind:    models.KindCancelled,
		Title:   Title,
		Body:    fmt.Sprintf("Timer stopped: you gave up this session of %q.", habit.Name),
		HabitID: habit.ID,
	}
}

// CompletionFailed reports a finished timer whose check-off was not saved.
func CompletionFailed(habit models.Habit) models.Notification {
	return models.Notification{
		Kind:    models.KindInfo,
		Title:   Title,
		Body:    fmt.Sprintf("Time is up for %q, but the check-off could not be saved.", habit.Name),
		HabitID: habit.ID,
	}
}

func Info(body string) models.Notification {
	return models.Notification{Kind: models.KindInfo, Title: Title, Body: body}
}

// Chime is the completion signal.
type Chime interface {
	Play() error
}

// Bell rings the terminal bell on W.
type Bell struct {
	W io.Writer
}

func (b Bell) Play() error {
	if b.W == nil {
		return nil
	}
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Silent never makes a sound.
type Silent struct{}

func (Silent) Play() error { return nil }

// Ring plays c and logs any failure.
func Ring(c Chime) {
	if c == nil {
		return
	}
	if err := c.Play(); err != nil {
		slog.Warn("completion chime failed", "error", err)
	}
}
