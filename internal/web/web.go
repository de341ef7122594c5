package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Joseda-hg/focuspal/internal/assistant"
	"github.com/Joseda-hg/focuspal/internal/focus"
	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/Joseda-hg/focuspal/internal/observability"
	"github.com/Joseda-hg/focuspal/internal/repo"
	"github.com/Joseda-hg/focuspal/internal/stats"
	"github.com/Joseda-hg/focuspal/internal/wellness"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.tmpl").Funcs(template.FuncMap{
	"ago": humanize.Time,
}).ParseFS(templateFS, "templates/index.tmpl"))

// historyLister is implemented by stores that keep a write log.
type historyLister interface {
	ListHistory(ctx context.Context, key string) ([]model.HistoryEntry, error)
}

type Server struct {
	assistant  *assistant.Assistant
	repo       *repo.Repository
	controller *focus.Controller
	metrics    *Metrics
	registry   *prometheus.Registry
}

// NewServer wires the HTTP surface. controller may be nil, in which case
// focus and break commands are answered but no countdown starts.
func NewServer(a *assistant.Assistant, controller *focus.Controller) (*Server, error) {
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	if err != nil {
		return nil, err
	}
	return &Server{
		assistant:  a,
		repo:       a.Repository(),
		controller: controller,
		metrics:    metrics,
		registry:   registry,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.instrument("index", s.indexHandler))
	mux.HandleFunc("POST /api/command", s.instrument("command", s.apiCommandHandler))
	mux.HandleFunc("GET /api/status", s.instrument("status", s.apiStatusHandler))
	mux.HandleFunc("GET /api/tasks", s.instrument("tasks", s.apiTasksHandler))
	mux.HandleFunc("/api/tasks/", s.instrument("task", s.apiTaskHandler))
	mux.HandleFunc("GET /api/reminders", s.instrument("reminders", s.apiRemindersHandler))
	mux.HandleFunc("GET /api/activity", s.instrument("activity", s.apiActivityHandler))
	mux.HandleFunc("GET /api/wellness", s.instrument("wellness", s.apiWellnessHandler))
	mux.HandleFunc("GET /api/blocked", s.instrument("blocked", s.apiBlockedHandler))
	mux.HandleFunc("POST /api/mood", s.instrument("mood", s.apiMoodHandler))
	mux.HandleFunc("GET /api/history", s.instrument("history", s.apiHistoryHandler))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := observability.WithRequestID(r.Context(), uuid.NewString())
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r.WithContext(ctx))
		s.metrics.RecordRequest(route, rec.status, time.Since(start))
		observability.LoggerFromContext(ctx).Debug("http request",
			"route", route, "method", r.Method, "status", rec.status, "duration", time.Since(start))
	}
}

type dashboard struct {
	Summary   model.StatusSummary
	Scores    stats.Scores
	Weekly    stats.WeeklySummary
	Tasks     []model.Task
	Reminders []model.Reminder
	Activity  []model.Activity
	Focus     bool
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h, err := s.repo.Histories(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	tasks, err := s.repo.Tasks(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	reminders, err := s.repo.Reminders(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	activity, err := s.repo.Activity(ctx, 10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	now := s.assistant.Now()
	data := dashboard{
		Summary:   stats.Summarize(h.Focus, h.Tasks, h.Moods, now),
		Scores:    stats.Score(h.Focus, h.Tasks, h.Moods, now),
		Weekly:    stats.Weekly(h.Focus, h.Tasks, h.Moods, now),
		Tasks:     tasks,
		Reminders: reminders,
		Activity:  activity,
		Focus:     s.controller != nil && s.controller.Active(),
	}
	if err := indexTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) apiCommandHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode command: %w", err))
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, errors.New("text is required"))
		return
	}

	resp := s.assistant.Interpret(r.Context(), body.Text)
	s.metrics.RecordCommand(resp.Intent)
	if s.controller != nil {
		if err := s.controller.Apply(r.Context(), resp); err != nil {
			observability.LoggerFromContext(r.Context()).Error("apply command", "err", err)
		}
	}
	writeJSON(w, resp)
}

func (s *Server) apiStatusHandler(w http.ResponseWriter, r *http.Request) {
	h, err := s.repo.Histories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	now := s.assistant.Now()

	payload := struct {
		Summary model.StatusSummary `json:"summary"`
		Weekly  stats.WeeklySummary `json:"weekly"`
		Focus   bool                `json:"focusMode"`
	}{
		Summary: stats.Summarize(h.Focus, h.Tasks, h.Moods, now),
		Weekly:  stats.Weekly(h.Focus, h.Tasks, h.Moods, now),
		Focus:   s.controller != nil && s.controller.Active(),
	}
	writeJSON(w, payload)
}

func (s *Server) apiTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.repo.Tasks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, tasks)
}

// apiTaskHandler toggles (POST, {"completed": bool}) or deletes (DELETE) a
// task by id.
func (s *Server) apiTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Path, "/api/tasks/")
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var body struct {
			Completed bool `json:"completed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode task update: %w", err))
			return
		}
		task, err := s.repo.SetTaskCompleted(r.Context(), id, body.Completed, s.assistant.Now())
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, task)
	case http.MethodDelete:
		if err := s.repo.DeleteTask(r.Context(), id); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	}
}

func (s *Server) apiRemindersHandler(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.repo.Reminders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, reminders)
}

func (s *Server) apiActivityHandler(w http.ResponseWriter, r *http.Request) {
	activity, err := s.repo.Activity(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, activity)
}

func (s *Server) apiWellnessHandler(w http.ResponseWriter, r *http.Request) {
	h, err := s.repo.Histories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, wellness.BuildReport(h.Focus, h.Tasks, h.Moods, s.assistant.Now()))
}

// apiBlockedHandler reports whether a URL is on the distracting-site list.
// While focus mode is on the check counts as a navigation attempt.
func (s *Server) apiBlockedHandler(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("url"))
	if target == "" {
		writeError(w, http.StatusBadRequest, errors.New("url is required"))
		return
	}

	payload := struct {
		URL       string `json:"url"`
		Listed    bool   `json:"listed"`
		Pattern   string `json:"pattern,omitempty"`
		FocusMode bool   `json:"focusMode"`
		Blocked   bool   `json:"blocked"`
	}{URL: target}

	if s.controller != nil {
		payload.Pattern, payload.Listed = s.controller.Blocker().Blocked(target)
		payload.FocusMode = s.controller.Active()
		payload.Blocked = s.controller.Intercept(r.Context(), target)
	}
	s.metrics.RecordSiteCheck(payload.Blocked)
	writeJSON(w, payload)
}

func (s *Server) apiMoodHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mood  string `json:"mood"`
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode mood: %w", err))
		return
	}
	mood := strings.ToLower(strings.TrimSpace(body.Mood))
	if mood == "" {
		writeError(w, http.StatusBadRequest, errors.New("mood is required"))
		return
	}

	entry := model.MoodEntry{Mood: mood, Notes: body.Notes, Timestamp: s.assistant.Now()}
	if err := s.repo.TrackMood(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, entry)
}

func (s *Server) apiHistoryHandler(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.repo.Store().(historyLister)
	if !ok {
		writeJSON(w, []model.HistoryEntry{})
		return
	}
	history, err := lister.ListHistory(r.Context(), strings.TrimSpace(r.URL.Query().Get("key")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, history)
}

func statusFor(err error) int {
	if errors.Is(err, repo.ErrTaskNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func parseID(path, prefix string) (string, error) {
	if !strings.HasPrefix(path, prefix) {
		return "", fmt.Errorf("invalid path")
	}
	value := strings.TrimPrefix(path, prefix)
	value = strings.Trim(value, "/")
	if value == "" {
		return "", fmt.Errorf("missing id")
	}
	return value, nil
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}
