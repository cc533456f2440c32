// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for daily-habits.

# Domain Types

  - Habit: id, name, duration (minutes)
  - CompletionLog: habit id → dates completed (YYYY/MM/DD)
  - TimerState: the single countdown (active, habit_id, total/remaining seconds)
  - Backup: {habits, completionLog}, used for export, import and snapshots
  - Notification: kind, title, body

# Request Types

  - AddHabitRequest: name, duration
  - StartTimerRequest: habit_id

# Response Types

  - ListHabitsResponse: date, habits with completed_today
  - AddHabitResponse: habit
  - ResetTodayResponse: date, removed
  - TimerResponse: timer, habit_name, progress_percent
  - ImportResponse: habits, message
  - ConfirmationResponse: error, prompt
  - ErrorResponse: error, message

# Constants

Notification kinds:

	KindStarted   = "started"
	KindCompleted = "completed"
	KindCancelled = "cancelled"
	KindInfo      = "info"

View modes:

	ModeList  = "list"
	ModeTimer = "timer"
*/
package models
