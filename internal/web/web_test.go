package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/focuspal/internal/assistant"
	"github.com/Joseda-hg/focuspal/internal/focus"
	"github.com/Joseda-hg/focuspal/internal/kv"
	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/Joseda-hg/focuspal/internal/notify"
	"github.com/Joseda-hg/focuspal/internal/repo"
)

var fixedNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

func newTestServer(t *testing.T) (http.Handler, *repo.Repository, *focus.Controller) {
	t.Helper()
	r := repo.New(kv.NewMemory())
	now := func() time.Time { return fixedNow }
	controller := focus.NewController(focus.Config{
		Repo:     r,
		Notifier: &notify.Recorder{},
		Blocker:  focus.NewBlocker([]string{"*reddit.com/*"}),
		Now:      now,
	})
	t.Cleanup(controller.StopTimer)

	srv, err := NewServer(assistant.New(r, now), controller)
	require.NoError(t, err)
	return srv.Handler(), r, controller
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCommandCreatesTask(t *testing.T) {
	h, r, _ := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/command", `{"text":"add a task write weekly report"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "task", resp.Type)
	assert.Equal(t, "Added task: write weekly report (medium priority, work)", resp.Message)

	tasks, err := r.Tasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCommandRejectsEmptyText(t *testing.T) {
	h, _, _ := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/command", `{"text":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/command", `not json`).Code)
}

func TestCommandStartsFocus(t *testing.T) {
	h, _, controller := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/command", `{"text":"start a focus session for 30 minutes"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, controller.Active())

	rec = do(t, h, http.MethodGet, "/api/blocked?url=https://reddit.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var blocked struct {
		Listed  bool   `json:"listed"`
		Blocked bool   `json:"blocked"`
		Pattern string `json:"pattern"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blocked))
	assert.True(t, blocked.Listed)
	assert.True(t, blocked.Blocked)
	assert.Equal(t, "*reddit.com/*", blocked.Pattern)

	session, ok := controller.Session()
	require.True(t, ok)
	assert.Equal(t, 1, session.Distractions)
}

func TestBlockedOutsideFocus(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/blocked?url=https://reddit.com/r/golang", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var blocked struct {
		Listed  bool `json:"listed"`
		Blocked bool `json:"blocked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blocked))
	assert.True(t, blocked.Listed)
	assert.False(t, blocked.Blocked)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/blocked", "").Code)
}

func TestTaskToggleAndDelete(t *testing.T) {
	h, r, _ := newTestServer(t)
	ctx := context.Background()

	task := model.Task{Text: "call plumber"}
	require.NoError(t, r.AddTask(ctx, &task))

	rec := do(t, h, http.MethodPost, "/api/tasks/"+task.ID, `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	history, err := r.TaskHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)

	rec = do(t, h, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		Summary model.StatusSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 1, status.Summary.CompletedTasks)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/tasks/"+task.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/tasks/"+task.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/tasks/", "").Code)
}

func TestMoodAndWellness(t *testing.T) {
	h, r, _ := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/mood", `{"mood":""}`).Code)
	rec := do(t, h, http.MethodPost, "/api/mood", `{"mood":"Great","notes":"shipped it"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	moods, err := r.Moods(context.Background())
	require.NoError(t, err)
	require.Len(t, moods, 1)
	assert.Equal(t, "great", moods[0].Mood)

	rec = do(t, h, http.MethodGet, "/api/wellness", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"averageMood":"great"`)
}

func TestIndexAndMetrics(t *testing.T) {
	h, _, _ := newTestServer(t)

	do(t, h, http.MethodPost, "/api/command", `{"text":"what's the weather"}`)

	rec := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No tasks yet.")

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `focuspal_commands_total{intent="unknown"} 1`)
	assert.Contains(t, rec.Body.String(), "focuspal_http_request_duration_seconds")
}

func TestHistoryWithoutWriteLog(t *testing.T) {
	h, _, _ := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
