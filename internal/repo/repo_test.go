package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/focuspal/internal/kv"
	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/Joseda-hg/focuspal/internal/stats"
)

func TestAddTaskAssignsID(t *testing.T) {
	ctx := context.Background()
	r := New(kv.NewMemory())

	task := model.Task{Text: "write report", Priority: model.PriorityMedium, Category: model.CategoryWork}
	require.NoError(t, r.AddTask(ctx, &task))
	assert.NotEmpty(t, task.ID)

	tasks, err := r.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task, tasks[0])
}

func TestSetTaskCompletedRecordsHistory(t *testing.T) {
	ctx := context.Background()
	r := New(kv.NewMemory())
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	task := model.Task{Text: "water plants"}
	require.NoError(t, r.AddTask(ctx, &task))

	updated, err := r.SetTaskCompleted(ctx, task.ID, true, at)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, at.Equal(*updated.CompletedAt))

	reopened, err := r.SetTaskCompleted(ctx, task.ID, false, at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)

	history, err := r.TaskHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Completed)
	assert.False(t, history[1].Completed)
	assert.Equal(t, "water plants", history[0].Text)
}

func TestSetTaskCompletedIgnoresRepeats(t *testing.T) {
	ctx := context.Background()
	r := New(kv.NewMemory())
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)

	task := model.Task{Text: "pay rent"}
	require.NoError(t, r.AddTask(ctx, &task))

	_, err := r.SetTaskCompleted(ctx, task.ID, true, at)
	require.NoError(t, err)
	_, err = r.SetTaskCompleted(ctx, task.ID, false, at.Add(time.Minute))
	require.NoError(t, err)

	h, err := r.Histories(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Summarize(h.Focus, h.Tasks, h.Moods, at).CompletedTasks)

	for i := range 2 {
		updated, err := r.SetTaskCompleted(ctx, task.ID, true, at.Add(time.Duration(i+2)*time.Minute))
		require.NoError(t, err)
		require.NotNil(t, updated.CompletedAt)
		assert.True(t, at.Add(2*time.Minute).Equal(*updated.CompletedAt))
	}

	history, err := r.TaskHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)

	h, err = r.Histories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Summarize(h.Focus, h.Tasks, h.Moods, at).CompletedTasks)
}

func TestSetTaskCompletedUnknownTask(t *testing.T) {
	r := New(kv.NewMemory())
	_, err := r.SetTaskCompleted(context.Background(), "nope", true, time.Now())
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	r := New(kv.NewMemory())

	first := model.Task{Text: "one"}
	second := model.Task{Text: "two"}
	require.NoError(t, r.AddTask(ctx, &first))
	require.NoError(t, r.AddTask(ctx, &second))

	require.NoError(t, r.DeleteTask(ctx, first.ID))
	tasks, err := r.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "two", tasks[0].Text)

	require.ErrorIs(t, r.DeleteTask(ctx, first.ID), ErrTaskNotFound)
}

func TestHistoriesDefaultToEmpty(t *testing.T) {
	h, err := New(kv.NewMemory()).Histories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.Focus)
	assert.Empty(t, h.Tasks)
	assert.Empty(t, h.Moods)
}

func TestHistoriesReadAllLogs(t *testing.T) {
	ctx := context.Background()
	r := New(kv.NewMemory())
	now := time.Now()

	require.NoError(t, r.AddFocusEvent(ctx, model.FocusEvent{Timestamp: now, Duration: 1500}))
	require.NoError(t, r.TrackMood(ctx, model.MoodEntry{Mood: "good", Timestamp: now}))

	h, err := r.Histories(ctx)
	require.NoError(t, err)
	require.Len(t, h.Focus, 1)
	assert.Equal(t, 1500.0, h.Focus[0].Duration)
	require.Len(t, h.Moods, 1)
	assert.Equal(t, "good", h.Moods[0].Mood)
}

func TestActivityLimit(t *testing.T) {
	ctx := context.Background()
	r := New(kv.NewMemory())
	for _, description := range []string{"a", "b", "c"} {
		require.NoError(t, r.LogActivity(ctx, model.Activity{Type: "task", Description: description}))
	}

	recent, err := r.Activity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[0].Description)
	assert.Equal(t, "c", recent[1].Description)

	all, err := r.Activity(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	r := New(kv.NewMemory())

	settings, err := r.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)

	custom := model.DefaultSettings()
	custom.FocusMinutes = 50
	require.NoError(t, r.EnsureSettings(ctx, custom))
	settings, err = r.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, settings.FocusMinutes)

	// Existing settings are not overwritten.
	require.NoError(t, r.EnsureSettings(ctx, model.DefaultSettings()))
	settings, err = r.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, settings.FocusMinutes)
}
