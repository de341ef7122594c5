// Package repo gives typed access to the collections kept in a kv.Store.
//
// Reminders, focus, mood and activity logs are append-only. A task's
// completion flag is the only field that changes after creation.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Joseda-hg/focuspal/internal/kv"
	"github.com/Joseda-hg/focuspal/internal/model"
)

const (
	KeyReminders     = "reminders"
	KeyTasks         = "tasks"
	KeyTaskHistory   = "taskHistory"
	KeyFocusHistory  = "focusHistory"
	KeyMoodHistory   = "moodHistory"
	KeyFocusSessions = "focusSessions"
	KeyActivity      = "activity"
	KeySettings      = "settings"
)

var ErrTaskNotFound = errors.New("task not found")

type Repository struct {
	store kv.Store
}

// Histories bundles the three logs the aggregator reads.
type Histories struct {
	Focus []model.FocusEvent
	Tasks []model.TaskEvent
	Moods []model.MoodEntry
}

func New(store kv.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Store() kv.Store {
	return r.store
}

func (r *Repository) AddReminder(ctx context.Context, reminder *model.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}
	return kv.Append(ctx, r.store, KeyReminders, *reminder)
}

func (r *Repository) Reminders(ctx context.Context) ([]model.Reminder, error) {
	return kv.Load[model.Reminder](ctx, r.store, KeyReminders)
}

func (r *Repository) AddTask(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	return kv.Append(ctx, r.store, KeyTasks, *task)
}

func (r *Repository) Tasks(ctx context.Context) ([]model.Task, error) {
	return kv.Load[model.Task](ctx, r.store, KeyTasks)
}

// SetTaskCompleted flips the completion flag and records the change in
// taskHistory within a single Set. Setting the flag it already has is a
// no-op.
func (r *Repository) SetTaskCompleted(ctx context.Context, id string, completed bool, at time.Time) (model.Task, error) {
	values, err := r.store.Get(ctx, KeyTasks, KeyTaskHistory)
	if err != nil {
		return model.Task{}, fmt.Errorf("get tasks: %w", err)
	}
	tasks, err := kv.List[model.Task](values, KeyTasks)
	if err != nil {
		return model.Task{}, err
	}
	history, err := kv.List[model.TaskEvent](values, KeyTaskHistory)
	if err != nil {
		return model.Task{}, err
	}

	index := -1
	for i := range tasks {
		if tasks[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	task := &tasks[index]
	if task.Completed == completed {
		return *task, nil
	}
	task.Completed = completed
	if completed {
		stamp := at
		task.CompletedAt = &stamp
	} else {
		task.CompletedAt = nil
	}
	history = append(history, model.TaskEvent{
		TaskID:    task.ID,
		Text:      task.Text,
		Completed: completed,
		Timestamp: at,
	})

	update, err := kv.Encode(KeyTasks, tasks)
	if err != nil {
		return model.Task{}, err
	}
	encodedHistory, err := kv.Encode(KeyTaskHistory, history)
	if err != nil {
		return model.Task{}, err
	}
	update[KeyTaskHistory] = encodedHistory[KeyTaskHistory]

	if err := r.store.Set(ctx, update); err != nil {
		return model.Task{}, fmt.Errorf("set tasks: %w", err)
	}
	return *task, nil
}

// DeleteTask removes a task from the task list. Task history is kept.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	tasks, err := r.Tasks(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	if len(kept) == len(tasks) {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return kv.Save(ctx, r.store, KeyTasks, kept)
}

func (r *Repository) TaskHistory(ctx context.Context) ([]model.TaskEvent, error) {
	return kv.Load[model.TaskEvent](ctx, r.store, KeyTaskHistory)
}

func (r *Repository) FocusHistory(ctx context.Context) ([]model.FocusEvent, error) {
	return kv.Load[model.FocusEvent](ctx, r.store, KeyFocusHistory)
}

func (r *Repository) AddFocusEvent(ctx context.Context, event model.FocusEvent) error {
	return kv.Append(ctx, r.store, KeyFocusHistory, event)
}

func (r *Repository) FocusSessions(ctx context.Context) ([]model.FocusSession, error) {
	return kv.Load[model.FocusSession](ctx, r.store, KeyFocusSessions)
}

func (r *Repository) AddFocusSession(ctx context.Context, session model.FocusSession) error {
	return kv.Append(ctx, r.store, KeyFocusSessions, session)
}

func (r *Repository) Moods(ctx context.Context) ([]model.MoodEntry, error) {
	return kv.Load[model.MoodEntry](ctx, r.store, KeyMoodHistory)
}

func (r *Repository) TrackMood(ctx context.Context, entry model.MoodEntry) error {
	return kv.Append(ctx, r.store, KeyMoodHistory, entry)
}

// Activity returns the newest limit entries, oldest first. limit <= 0 returns
// all of them.
func (r *Repository) Activity(ctx context.Context, limit int) ([]model.Activity, error) {
	items, err := kv.Load[model.Activity](ctx, r.store, KeyActivity)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}
	return items, nil
}

func (r *Repository) LogActivity(ctx context.Context, activity model.Activity) error {
	return kv.Append(ctx, r.store, KeyActivity, activity)
}

// Histories reads the focus, task and mood logs in one round trip.
func (r *Repository) Histories(ctx context.Context) (Histories, error) {
	values, err := r.store.Get(ctx, KeyFocusHistory, KeyTaskHistory, KeyMoodHistory)
	if err != nil {
		return Histories{}, fmt.Errorf("get histories: %w", err)
	}

	var h Histories
	if h.Focus, err = kv.List[model.FocusEvent](values, KeyFocusHistory); err != nil {
		return Histories{}, err
	}
	if h.Tasks, err = kv.List[model.TaskEvent](values, KeyTaskHistory); err != nil {
		return Histories{}, err
	}
	if h.Moods, err = kv.List[model.MoodEntry](values, KeyMoodHistory); err != nil {
		return Histories{}, err
	}
	return h, nil
}

// Settings returns the stored settings, or defaults when none were saved.
func (r *Repository) Settings(ctx context.Context) (model.Settings, error) {
	values, err := r.store.Get(ctx, KeySettings)
	if err != nil {
		return model.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	settings := model.DefaultSettings()
	if _, err := kv.Object(values, KeySettings, &settings); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

func (r *Repository) SaveSettings(ctx context.Context, settings model.Settings) error {
	values, err := kv.Encode(KeySettings, settings)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, values)
}

// EnsureSettings writes defaults when no settings are stored yet.
func (r *Repository) EnsureSettings(ctx context.Context, defaults model.Settings) error {
	values, err := r.store.Get(ctx, KeySettings)
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}
	if _, ok := values[KeySettings]; ok {
		return nil
	}
	return r.SaveSettings(ctx, defaults)
}
