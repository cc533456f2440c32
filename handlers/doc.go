// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the daily-habits API.

# Handler Types

Each handler is a struct holding the components it drives:

  - HabitHandler: list, add, delete, reset today
  - TimerHandler: start, stop, state of the single countdown
  - BackupHandler: export and import
  - ViewHandler: rendered page and the notification event stream

Handlers are created via constructor functions:

	habitHandler := handlers.NewHabitHandler(store, notifier)

# Habits

	GET    /habits                         → ListHabits
	POST   /habits                         → AddHabit (name, duration ≥ 1)
	DELETE /habits/{id}?confirm=true       → DeleteHabit (purges history)
	POST   /habits/reset-today?confirm=true → ResetToday

# Timer

	GET  /timer       → GetTimer
	POST /timer/start → StartTimer (409 while another timer runs)
	POST /timer/stop  → StopTimer (409 when idle)

# Backup

	GET  /export               → Export (Content-Disposition filename)
	POST /import?confirm=true  → Import (full overwrite)

# Confirmation

Destructive operations need confirm=true. Without it they answer
428 Precondition Required with the prompt to show the user, and nothing
changes.

# Errors

	400  validation errors, malformed or mis-shaped import documents
	404  unknown habit
	409  timer guard violations
	428  missing confirmation
	500  storage failures (state is left as it was)
*/
package handlers
