// Package assistant turns free-text commands into intents and runs the
// matching handler: reminders and tasks are persisted, focus and break
// requests are answered with a duration for the caller to start, and status
// requests are answered from the stored history.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Joseda-hg/focuspal/internal/classify"
	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/Joseda-hg/focuspal/internal/observability"
	"github.com/Joseda-hg/focuspal/internal/repo"
	"github.com/Joseda-hg/focuspal/internal/stats"
	"github.com/Joseda-hg/focuspal/internal/timeparse"
)

const (
	ActionCreate = "create"
	ActionStart  = "start"
	ActionReport = "report"

	HelpMessage      = "I didn't understand that command. Try asking me to add a task, set a reminder, or start a focus session."
	TimeErrorMessage = `I couldn't understand the time format. Try something like "tomorrow at 3 PM" or "in 2 hours".`
	StorageMessage   = "Sorry, I couldn't save that. Please try again."

	// TimeLayout renders reminder times in confirmations.
	TimeLayout = "1/2/2006, 3:04:05 PM"
)

// Countdown is the payload of focus and break responses.
type Countdown struct {
	Duration int `json:"duration"`
}

type Assistant struct {
	repo   *repo.Repository
	now    func() time.Time
	logger *slog.Logger
}

// New builds an Assistant over r. A nil now uses time.Now.
func New(r *repo.Repository, now func() time.Time) *Assistant {
	if now == nil {
		now = time.Now
	}
	return &Assistant{
		repo:   r,
		now:    now,
		logger: observability.Component("assistant"),
	}
}

func (a *Assistant) Repository() *repo.Repository {
	return a.repo
}

func (a *Assistant) Now() time.Time {
	return a.now()
}

// Interpret parses text and dispatches to the intent handler. Failures are
// reported in the Response, never as an error.
func (a *Assistant) Interpret(ctx context.Context, text string) model.Response {
	cmd := Parse(strings.TrimSpace(text))
	switch cmd.Intent {
	case model.IntentReminder:
		return a.handleReminder(ctx, strings.TrimSpace(cmd.Groups[0]), strings.TrimSpace(cmd.Groups[1]))
	case model.IntentTask:
		return a.handleTask(ctx, strings.TrimSpace(cmd.Groups[0]))
	case model.IntentFocus:
		return a.handleFocus(ctx, cmd.Groups[0])
	case model.IntentBreak:
		return a.handleBreak(ctx, cmd.Groups[0])
	case model.IntentStatus:
		return a.handleStatus(ctx)
	default:
		return model.Response{Intent: model.IntentUnknown, Message: HelpMessage}
	}
}

func (a *Assistant) handleReminder(ctx context.Context, task, expr string) model.Response {
	now := a.now()
	at, ok := timeparse.Parse(expr, now)
	if !ok {
		return model.Response{Intent: model.IntentError, Message: TimeErrorMessage}
	}

	reminder := model.Reminder{Task: task, Time: at, Created: now}
	if err := a.repo.AddReminder(ctx, &reminder); err != nil {
		return a.storageFailure(ctx, "add reminder", err)
	}
	a.logActivity(ctx, "reminder", "Reminder set: "+task, now)

	return model.Response{
		Intent:  model.IntentReminder,
		Action:  ActionCreate,
		Data:    reminder,
		Message: fmt.Sprintf("I'll remind you to %s at %s", task, at.Format(TimeLayout)),
	}
}

func (a *Assistant) handleTask(ctx context.Context, text string) model.Response {
	now := a.now()
	analysis := classify.Classify(text)
	task := model.Task{
		Text:     text,
		Priority: analysis.Priority,
		Category: analysis.Category,
		Created:  now,
	}
	if err := a.repo.AddTask(ctx, &task); err != nil {
		return a.storageFailure(ctx, "add task", err)
	}
	a.logActivity(ctx, "task", "Task added: "+text, now)

	return model.Response{
		Intent:  model.IntentTask,
		Action:  ActionCreate,
		Data:    task,
		Message: fmt.Sprintf("Added task: %s (%s priority, %s)", text, analysis.Priority, analysis.Category),
	}
}

func (a *Assistant) handleFocus(ctx context.Context, raw string) model.Response {
	minutes := minutesOr(raw, a.settings(ctx).FocusMinutes)
	return model.Response{
		Intent:  model.IntentFocus,
		Action:  ActionStart,
		Data:    Countdown{Duration: minutes},
		Message: fmt.Sprintf("Starting a %d-minute focus session. I'll help you stay focused!", minutes),
	}
}

func (a *Assistant) handleBreak(ctx context.Context, raw string) model.Response {
	minutes := minutesOr(raw, a.settings(ctx).BreakMinutes)
	return model.Response{
		Intent:  model.IntentBreak,
		Action:  ActionStart,
		Data:    Countdown{Duration: minutes},
		Message: fmt.Sprintf("Starting a %d-minute break. Time to recharge!", minutes),
	}
}

func (a *Assistant) handleStatus(ctx context.Context) model.Response {
	h, err := a.repo.Histories(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "read histories", "err", err)
		return model.Response{Intent: model.IntentError, Message: "Sorry, I couldn't read your history right now."}
	}
	summary := stats.Summarize(h.Focus, h.Tasks, h.Moods, a.now())
	return model.Response{
		Intent:  model.IntentStatus,
		Action:  ActionReport,
		Data:    summary,
		Message: summary.Message,
	}
}

func (a *Assistant) settings(ctx context.Context) model.Settings {
	settings, err := a.repo.Settings(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "read settings, using defaults", "err", err)
		return model.DefaultSettings()
	}
	return settings
}

func (a *Assistant) logActivity(ctx context.Context, kind, description string, at time.Time) {
	err := a.repo.LogActivity(ctx, model.Activity{Type: kind, Description: description, Timestamp: at})
	if err != nil {
		a.logger.WarnContext(ctx, "log activity", "type", kind, "err", err)
	}
}

func (a *Assistant) storageFailure(ctx context.Context, op string, err error) model.Response {
	a.logger.ErrorContext(ctx, op, "err", err)
	return model.Response{Intent: model.IntentError, Message: StorageMessage}
}

// MaxMinutes caps a spoken focus or break length at one day.
const MaxMinutes = 24 * 60

// minutesOr parses a captured minute count. Missing, zero, out-of-range
// and over-long values fall back to the setting.
func minutesOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > MaxMinutes {
		return fallback
	}
	return n
}
