// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package timer runs the single focus countdown. Reaching zero checks the
// habit off for the day it completes on.
package timer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/daily-habits/habits"
	"github.com/danielhkuo/daily-habits/metrics"
	"github.com/danielhkuo/daily-habits/models"
	"github.com/danielhkuo/daily-habits/notify"
)

var (
	ErrTimerActive = errors.New("a timer is already running; stop it first")
	ErrTimerIdle   = errors.New("no timer is running")
)

// HabitSource is the part of the habit store the controller needs.
type HabitSource interface {
	Habit(id string) (models.Habit, bool)
	MarkComplete(ctx context.Context, id string) (bool, error)
}

// TickSource starts a recurring tick and returns its channel and a stop func.
type TickSource func(interval time.Duration) (ticks <-chan time.Time, stop func())

// RealTicks is a TickSource backed by time.Ticker.
func RealTicks(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// run is the owned handle of one Running period.
type run struct {
	stopTicks func()
	done      chan struct{}
	exited    chan struct{}
}

// Controller is the single countdown. It is Idle or Running; at most one
// timer runs at a time.
type Controller struct {
	mu       sync.Mutex
	habits   HabitSource
	notifier notify.Notifier
	chime    notify.Chime
	ticks    TickSource
	interval time.Duration

	state models.TimerState
	habit models.Habit
	run   *run
	hooks []func()
}

type Option func(*Controller)

func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithChime(ch notify.Chime) Option {
	return func(c *Controller) { c.chime = ch }
}

func WithTickSource(ts TickSource) Option {
	return func(c *Controller) { c.ticks = ts }
}

// WithInterval sets the tick period (one second by default).
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

func NewController(src HabitSource, opts ...Option) *Controller {
	c := &Controller{
		habits:   src,
		notifier: notify.Discard{},
		chime:    notify.Silent{},
		ticks:    RealTicks,
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers fn to run after every state change, including ticks.
// Hooks run outside the controller lock and must not call Stop or Close.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	c.hooks = append(c.hooks, fn)
	c.mu.Unlock()
}

func (c *Controller) changed() {
	c.mu.Lock()
	hooks := append([]func(){}, c.hooks...)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// State returns a copy of the timer state.
func (c *Controller) State() models.TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the timer state and, while running, the habit being timed.
func (c *Controller) Current() (models.TimerState, models.Habit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.habit
}

// Start moves Idle → Running for the habit. Starting while a timer runs is
// rejected and leaves the running timer untouched.
func (c *Controller) Start(habitID string) (models.TimerState, error) {
	c.mu.Lock()

	if c.state.Active {
		c.mu.Unlock()
		metrics.TimerTransitions.WithLabelValues("rejected").Inc()
		slog.Warn("timer start rejected", "habit_id", habitID, "reason", "already running")
		return models.TimerState{}, ErrTimerActive
	}

	habit, ok := c.habits.Habit(habitID)
	if !ok {
		c.mu.Unlock()
		return models.TimerState{}, habits.ErrHabitNotFound
	}
	if habit.Duration < 1 {
		c.mu.Unlock()
		return models.TimerState{}, habits.ErrInvalidDuration
	}

	total := habit.Duration * 60
	ticks, stop := c.ticks(c.interval)
	r := &run{
		stopTicks: stop,
		done:      make(chan struct{}),
		exited:    make(chan struct{}),
	}

	c.state = models.TimerState{
		Active:           true,
		HabitID:          habit.ID,
		TotalSeconds:     total,
		RemainingSeconds: total,
	}
	c.habit = habit
	c.run = r
	state := c.state
	c.mu.Unlock()

	go c.loop(r, ticks)

	metrics.TimerActive.Set(1)
	metrics.TimerTransitions.WithLabelValues("started").Inc()
	slog.Info("timer started", "habit_id", habit.ID, "total_seconds", total)

	c.notifier.Notify(notify.Started(habit))
	c.changed()
	return state, nil
}

func (c *Controller) loop(r *run, ticks <-chan time.Time) {
	defer close(r.exited)

	for {
		select {
		case <-r.done:
			return
		case <-ticks:
			if finished := c.tick(r); finished {
				return
			}
		}
	}
}

// Tick advances the running timer by one second. The scheduled task calls
// it once per interval; it is a no-op while Idle.
func (c *Controller) Tick() {
	c.mu.Lock()
	r := c.run
	c.mu.Unlock()

	if r != nil {
		c.tick(r)
	}
}

// tick reports whether r is finished, either because it completed on this
// tick or because it is stale.
func (c *Controller) tick(r *run) bool {
	c.mu.Lock()
	if c.run != r {
		c.mu.Unlock()
		return true
	}

	c.state.RemainingSeconds--
	if c.state.RemainingSeconds > 0 {
		c.mu.Unlock()
		c.changed()
		return false
	}

	habit := c.habit
	c.finishLocked()
	c.mu.Unlock()

	c.complete(habit)
	return true
}

// finishLocked returns to Idle and cancels the tick task. Caller holds c.mu.
func (c *Controller) finishLocked() *run {
	r := c.run
	c.run = nil
	c.state = models.TimerState{}
	c.habit = models.Habit{}

	if r != nil {
		r.stopTicks()
		close(r.done)
	}
	metrics.TimerActive.Set(0)
	return r
}

// complete logs today against the habit. The date is taken when the timer
// completes, so a run that crosses midnight counts for the new day.
func (c *Controller) complete(habit models.Habit) {
	if _, err := c.habits.MarkComplete(context.Background(), habit.ID); err != nil {
		slog.Error("failed to record completion", "habit_id", habit.ID, "error", err)
		metrics.TimerTransitions.WithLabelValues("failed").Inc()
		c.notifier.Notify(notify.CompletionFailed(habit))
		c.changed()
		return
	}

	notify.Ring(c.chime)
	metrics.TimerTransitions.WithLabelValues("completed").Inc()
	slog.Info("timer completed", "habit_id", habit.ID)

	c.notifier.Notify(notify.Completed(habit))
	c.changed()
}

// Stop cancels the running timer without recording a completion.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if !c.state.Active {
		c.mu.Unlock()
		return ErrTimerIdle
	}
	habit := c.habit
	r := c.finishLocked()
	c.mu.Unlock()

	<-r.exited

	metrics.TimerTransitions.WithLabelValues("cancelled").Inc()
	slog.Info("timer cancelled", "habit_id", habit.ID)

	c.notifier.Notify(notify.Cancelled(habit))
	c.changed()
	return nil
}

// Reconcile cancels the timer silently when its habit no longer exists,
// e.g. after a delete or an import.
func (c *Controller) Reconcile() {
	c.mu.Lock()
	if !c.state.Active {
		c.mu.Unlock()
		return
	}
	if _, ok := c.habits.Habit(c.state.HabitID); ok {
		c.mu.Unlock()
		return
	}
	habitID := c.state.HabitID
	r := c.finishLocked()
	c.mu.Unlock()

	<-r.exited

	metrics.TimerTransitions.WithLabelValues("cancelled").Inc()
	slog.Info("timer dropped: habit no longer exists", "habit_id", habitID)
	c.changed()
}

// Close cancels any running timer for shutdown.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.state.Active {
		c.mu.Unlock()
		return
	}
	r := c.finishLocked()
	c.mu.Unlock()

	<-r.exited
}
