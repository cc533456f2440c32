// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/daily-habits/backup"
	"github.com/danielhkuo/daily-habits/habits"
	"github.com/danielhkuo/daily-habits/models"
	"github.com/danielhkuo/daily-habits/timer"
	"github.com/danielhkuo/daily-habits/view"
)

const (
	InvalidHabitMessage = "Enter a habit name and a duration of at least 1 minute."
	ImportFailedMessage = "Import failed: the file could not be parsed or has an invalid format."
	CancelledMessage    = "Cancelled."
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAddName
	modeAddDuration
	modeImportPath
	modeConfirm
)

// refreshMsg is sent after the store or the timer changed.
type refreshMsg struct{}

type noteMsg models.Notification

type resultMsg struct {
	status string
	err    error
}

// confirmMsg asks the user a yes/no question before running an action.
type confirmMsg struct {
	prompt string
	run    func() error
	done   string
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	dateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	clockStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF7CCB")).Padding(1, 0)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Strikethrough(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FDFF8C")).MarginTop(1)
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true).MarginTop(1)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// Model is the bubbletea model of the habit list, the timer and the
// habit library.
type Model struct {
	store     *habits.Store
	timer     *timer.Controller
	changes   chan struct{}
	notes     <-chan models.Notification
	exportDir string

	page     view.Page
	cursor   int
	mode     inputMode
	input    textinput.Model
	progress progress.Model
	pending  *confirmMsg
	newName  string
	status   string
	width    int
}

type Option func(*Model)

// WithNotifications shows notifications from ch in the status line.
func WithNotifications(ch <-chan models.Notification) Option {
	return func(m *Model) { m.notes = ch }
}

// WithExportDir sets the directory backups are written to.
func WithExportDir(dir string) Option {
	return func(m *Model) { m.exportDir = dir }
}

// New builds the model and registers change hooks on the store and timer.
func New(store *habits.Store, ctl *timer.Controller, opts ...Option) Model {
	ti := textinput.New()
	ti.CharLimit = 100
	ti.Width = 40

	prog := progress.New(progress.WithScaledGradient("#FF7CCB", "#FDFF8C"))
	prog.Width = 40

	m := Model{
		store:     store,
		timer:     ctl,
		changes:   make(chan struct{}, 1),
		exportDir: ".",
		input:     ti,
		progress:  prog,
	}
	for _, opt := range opts {
		opt(&m)
	}

	signal := func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	}
	store.OnChange(signal)
	ctl.OnChange(signal)

	m.refresh()
	return m
}

// Init starts listening for changes and notifications.
func (m Model) Init() tea.Cmd {
	if m.notes == nil {
		return waitForChange(m.changes)
	}
	return tea.Batch(waitForChange(m.changes), waitForNote(m.notes))
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return refreshMsg{}
	}
}

func waitForNote(ch <-chan models.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noteMsg(n)
	}
}

func (m *Model) refresh() {
	m.page = view.Render(view.Capture(m.store, m.timer))
	if n := len(m.page.Manage); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-4, 10), 60)
		return m, nil

	case refreshMsg:
		m.refresh()
		return m, waitForChange(m.changes)

	case noteMsg:
		m.status = msg.Body
		return m, waitForNote(m.notes)

	case resultMsg:
		if msg.err != nil {
			m.status = describe(msg.err)
		} else if msg.status != "" {
			m.status = msg.status
		}
		m.refresh()
		return m, nil

	case confirmMsg:
		m.pending = &msg
		m.mode = modeConfirm
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeAddName, modeAddDuration, modeImportPath:
			return m.updateInput(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.page.Manage)-1 {
			m.cursor++
		}
	case "enter", "s":
		if id, ok := m.startable(); ok {
			return m, m.startTimer(id)
		}
	case "x":
		return m, m.stopTimer()
	case "a":
		m.newName = ""
		m.beginInput(modeAddName, "Habit name")
		return m, textinput.Blink
	case "d":
		if id, ok := m.selected(); ok {
			return m, m.ask(habits.DeletePrompt, "Habit deleted.", func() error {
				return m.store.DeleteHabit(context.Background(), id, habits.Confirmed)
			})
		}
	case "r":
		return m, m.ask(habits.ResetPrompt(m.store.Today()), "Today's check-ins have been cleared.", func() error {
			_, err := m.store.ResetToday(context.Background(), habits.Confirmed)
			return err
		})
	case "e":
		return m, m.export()
	case "i":
		m.beginInput(modeImportPath, "Path to backup file")
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.endInput()
		m.status = CancelledMessage
		return m, nil
	case "enter":
		value := m.input.Value()
		switch m.mode {
		case modeAddName:
			m.newName = value
			m.beginInput(modeAddDuration, "Minutes")
			return m, nil
		case modeAddDuration:
			m.endInput()
			return m, m.addHabit(m.newName, value)
		case modeImportPath:
			m.endInput()
			return m, m.readBackup(value)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.pending
	switch msg.String() {
	case "y", "Y":
		m.pending = nil
		m.mode = modeBrowse
		return m, func() tea.Msg {
			return resultMsg{status: pending.done, err: pending.run()}
		}
	case "n", "N", "esc":
		m.pending = nil
		m.mode = modeBrowse
		m.status = CancelledMessage
	}
	return m, nil
}

func (m *Model) beginInput(mode inputMode, placeholder string) {
	m.mode = mode
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.Focus()
}

func (m *Model) endInput() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.Reset()
}

func (m Model) selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.page.Manage) {
		return "", false
	}
	return m.page.Manage[m.cursor].ID, true
}

// startable returns the selected habit when the list offers a start for it.
func (m Model) startable() (string, bool) {
	if m.page.Mode != models.ModeList || m.cursor < 0 || m.cursor >= len(m.page.List) {
		return "", false
	}
	row := m.page.List[m.cursor]
	return row.ID, row.CanStart
}

func (m Model) ask(prompt, done string, run func() error) tea.Cmd {
	return func() tea.Msg {
		return confirmMsg{prompt: prompt, run: run, done: done}
	}
}

func (m Model) startTimer(id string) tea.Cmd {
	ctl := m.timer
	return func() tea.Msg {
		_, err := ctl.Start(id)
		return resultMsg{err: err}
	}
}

func (m Model) stopTimer() tea.Cmd {
	ctl := m.timer
	return func() tea.Msg {
		return resultMsg{err: ctl.Stop()}
	}
}

func (m Model) addHabit(name, minutes string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		duration, err := strconv.Atoi(strings.TrimSpace(minutes))
		if err != nil {
			return resultMsg{err: habits.ErrInvalidDuration}
		}
		habit, err := store.AddHabit(context.Background(), name, duration)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{status: fmt.Sprintf("Added %q.", habit.Name)}
	}
}

func (m Model) export() tea.Cmd {
	store, dir := m.store, m.exportDir
	return func() tea.Msg {
		filename, data, err := backup.Export(store.Snapshot(), store.Now())
		if err != nil {
			return resultMsg{err: err}
		}
		path := filepath.Join(dir, filename)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return resultMsg{err: fmt.Errorf("failed to write backup: %w", err)}
		}
		return resultMsg{status: fmt.Sprintf("Exported to %s (%s).", path, humanize.Bytes(uint64(len(data))))}
	}
}

// readBackup parses the file first and only then asks to overwrite.
func (m Model) readBackup(path string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		data, err := os.ReadFile(strings.TrimSpace(path))
		if err != nil {
			return resultMsg{err: fmt.Errorf("failed to read backup: %w", err)}
		}
		doc, err := backup.Parse(data)
		if err != nil {
			return resultMsg{err: err}
		}
		return confirmMsg{
			prompt: habits.ImportPrompt,
			done:   "Data imported.",
			run: func() error {
				return store.Replace(context.Background(), doc, habits.Confirmed)
			},
		}
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, habits.ErrEmptyName), errors.Is(err, habits.ErrInvalidDuration):
		return InvalidHabitMessage
	case errors.Is(err, backup.ErrMalformed), errors.Is(err, backup.ErrInvalidShape):
		return ImportFailedMessage + " " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

func (m Model) View() string {
	var b strings.Builder
	p := m.page

	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(dateStyle.Render(p.DateBanner))
	b.WriteString("\n\n")

	if p.Mode == models.ModeTimer && p.Timer != nil {
		b.WriteString(p.Timer.HabitName)
		b.WriteString("\n")
		b.WriteString(clockStyle.Render(p.Timer.Display))
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(p.Timer.ProgressPercent / 100))
		b.WriteString("\n")
	} else if p.EmptyMessage != "" {
		b.WriteString(p.EmptyMessage)
		b.WriteString("\n")
	} else {
		for i, row := range p.List {
			line := fmt.Sprintf("[ ] %s (%d min)", row.Name, row.Duration)
			if row.CompletedToday {
				line = doneStyle.Render(fmt.Sprintf("[x] %s (%d min)", row.Name, row.Duration))
			}
			b.WriteString(m.marker(i) + line + "\n")
		}
	}

	b.WriteString(sectionStyle.Render("Habit library"))
	b.WriteString("\n")
	if p.ManageEmpty != "" {
		b.WriteString("  " + p.ManageEmpty + "\n")
	}
	for i, row := range p.Manage {
		marker := "  "
		if p.Mode == models.ModeTimer {
			marker = m.marker(i)
		}
		b.WriteString(marker + row.Label + "\n")
	}

	switch m.mode {
	case modeConfirm:
		b.WriteString(promptStyle.Render(m.pending.prompt + " (y/n)"))
		b.WriteString("\n")
	case modeAddName, modeAddDuration, modeImportPath:
		b.WriteString("\n" + m.input.View() + "\n")
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) marker(i int) string {
	if i == m.cursor {
		return cursorStyle.Render("> ")
	}
	return "  "
}

func (m Model) help() string {
	switch m.mode {
	case modeConfirm:
		return "y confirm • n cancel"
	case modeAddName, modeAddDuration, modeImportPath:
		return "enter next • esc cancel"
	}
	if m.page.Mode == models.ModeTimer {
		return "x stop • a add • d delete • e export • q quit"
	}
	return "↑/↓ select • enter start • a add • d delete • r reset today • e export • i import • q quit"
}
