package models

// DateLayout is the day key used in the completion log (YYYY/MM/DD).
const DateLayout = "2006/01/02"

// Notification kinds
const (
	KindStarted   = "started"
	KindCompleted = "completed"
	KindCancelled = "cancelled"
	KindInfo      = "info"
)

// View modes
const (
	ModeList  = "list"
	ModeTimer = "timer"
)

// Domain types

type Habit struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"` // minutes
}

// habit id -> dates (DateLayout), each date at most once
type CompletionLog map[string][]string

// Clone returns a deep copy of the log. Every entry is a non-nil slice so
// an emptied history encodes as [] rather than null.
func (l CompletionLog) Clone() CompletionLog {
	out := make(CompletionLog, len(l))
	for id, dates := range l {
		out[id] = append(make([]string, 0, len(dates)), dates...)
	}
	return out
}

// Contains reports whether date is logged for the habit.
func (l CompletionLog) Contains(habitID, date string) bool {
	for _, d := range l[habitID] {
		if d == date {
			return true
		}
	}
	return false
}

type TimerState struct {
	Active           bool   `json:"active"`
	HabitID          string `json:"habit_id,omitempty"`
	TotalSeconds     int    `json:"total_seconds"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// Backup is both the import/export document and a full snapshot of the store.
type Backup struct {
	Habits        []Habit       `json:"habits"`
	CompletionLog CompletionLog `json:"completionLog"`
}

type Notification struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	HabitID string `json:"habit_id,omitempty"`
}

// Request types

type AddHabitRequest struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

type StartTimerRequest struct {
	HabitID string `json:"habit_id"`
}

// Response types

type HabitSummary struct {
	Habit
	CompletedToday bool `json:"completed_today"`
}

type ListHabitsResponse struct {
	Date   string         `json:"date"`
	Habits []HabitSummary `json:"habits"`
}

type AddHabitResponse struct {
	Habit Habit `json:"habit"`
}

type ResetTodayResponse struct {
	Date    string `json:"date"`
	Removed int    `json:"removed"`
}

type TimerResponse struct {
	Timer           TimerState `json:"timer"`
	HabitName       string     `json:"habit_name,omitempty"`
	ProgressPercent float64    `json:"progress_percent"`
}

type ImportResponse struct {
	Habits  int    `json:"habits"`
	Message string `json:"message"`
}

// ConfirmationResponse is returned when a destructive operation is attempted
// without confirm=true.
type ConfirmationResponse struct {
	Error  string `json:"error"`
	Prompt string `json:"prompt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
