package model

import "time"

type Intent string

const (
	IntentReminder Intent = "reminder"
	IntentTask     Intent = "task"
	IntentFocus    Intent = "focus"
	IntentBreak    Intent = "break"
	IntentStatus   Intent = "status"
	IntentUnknown  Intent = "unknown"
	IntentError    Intent = "error"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	CategoryWork     = "work"
	CategoryPersonal = "personal"
	CategoryGeneral  = "general"

	MoodUnknown = "unknown"
)

type ParsedCommand struct {
	Intent Intent
	Groups []string
}

type Response struct {
	Intent  Intent `json:"type"`
	Action  string `json:"action,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

type Reminder struct {
	ID      string    `json:"id"`
	Task    string    `json:"task"`
	Time    time.Time `json:"time"`
	Created time.Time `json:"created"`
}

type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Created     time.Time  `json:"created"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// TaskEvent is a taskHistory entry; Timestamp is when the task was completed
// (or reopened).
type TaskEvent struct {
	TaskID    string    `json:"taskId"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
}

type FocusEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Duration   float64   `json:"duration"`
	BreakTaken bool      `json:"breakTaken"`
}

type MoodEntry struct {
	Mood      string    `json:"mood"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

type FocusSession struct {
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Duration     float64   `json:"duration"`
	Distractions int       `json:"distractions"`
}

type Activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type StatusSummary struct {
	FocusMinutes   float64 `json:"focusMinutes"`
	CompletedTasks int     `json:"completedTasks"`
	CurrentMood    string  `json:"currentMood"`
	Message        string  `json:"message"`
}

type Settings struct {
	FocusMinutes     int    `json:"focusMinutes"`
	BreakMinutes     int    `json:"breakMinutes"`
	AutoStartBreaks  bool   `json:"autoStartBreaks"`
	NotificationTone string `json:"notificationSound"`
	Theme            string `json:"theme"`
}

func DefaultSettings() Settings {
	return Settings{
		FocusMinutes:     25,
		BreakMinutes:     5,
		NotificationTone: "enabled",
		Theme:            "light",
	}
}

// HistoryEntry records a write to the backing store.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	EventType string    `json:"eventType"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}
