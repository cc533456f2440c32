// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tui is the terminal front end, built on bubbletea.

The model renders view.Page with lipgloss styles and a bubbles progress
bar for the running timer. Store and timer changes arrive through OnChange
hooks that signal a buffered channel, so hooks never block the event loop.
Notifications from a notify.Hub subscription show in the status line.

# Keys

	↑/↓ k/j  select habit
	enter s  start timer for the selected habit
	x        stop timer
	a        add habit (name, then minutes)
	d        delete selected habit (y/n)
	r        clear today's check-ins (y/n)
	e        export backup to the export directory
	i        import backup from a path (y/n after parsing)
	q        quit

Actions run as tea.Cmds and report back with a result message.
*/
package tui
