// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for Daily Habits.

Daily Habits is a personal habit tracker. Each habit has a focus duration
in minutes; running its countdown to zero checks it off for the day. Data
lives in a small key/value table so it survives restarts and can be
exported to or imported from a JSON backup.

# Starting

With no configuration the app serves its HTTP API on port 3318 and keeps
data in ./habits.db (sqlite):

	go run .

The terminal UI runs instead of the server with -ui:

	go run . -ui

In UI mode logs go to daily-habits.log unless -log-file says otherwise.

# Configuration

Settings resolve in order: CLI flags, environment (a .env file is loaded
first if present), the YAML file named by -c or HABITS_CONFIG, defaults.

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): sqlite path or postgres connection string
  - NOTIFICATIONS (-notifications): allow notifications (default: true)
  - CHIME (-chime): ring the terminal bell on completion (default: true)
  - LOG_LEVEL (-log-level), LOG_FILE (-log-file)
  - EXPORT_DIR (-export-dir): where the UI writes backups (default: .)
  - TICK_INTERVAL (-tick): timer tick period (default: 1s)

# Architecture

  - habits: habit list and completion log, the single source of truth
  - timer: the one countdown, Idle or Running, ticking once per interval
  - view: pure rendering of store and timer state
  - backup: export and import documents
  - notify: notification permission, delivery, chime
  - db: key/value persistence on sqlite or postgres
  - handlers, router, middleware: HTTP API
  - tui: terminal front end
  - metrics: Prometheus collectors
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
