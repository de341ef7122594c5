package focus

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/Joseda-hg/focuspal/internal/notify"
	"github.com/Joseda-hg/focuspal/internal/observability"
	"github.com/Joseda-hg/focuspal/internal/repo"
)

// Scheduler fires reminders whose time has come. Reminders are never
// rewritten, so what has fired is tracked by the last check time.
type Scheduler struct {
	repo     *repo.Repository
	notifier notify.Notifier
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu        sync.Mutex
	lastCheck time.Time
}

func NewScheduler(r *repo.Repository, n notify.Notifier, interval time.Duration, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	logger := observability.Component("scheduler")
	if n == nil {
		n = notify.Log{Logger: logger}
	}
	return &Scheduler{
		repo:      r,
		notifier:  n,
		interval:  interval,
		now:       now,
		logger:    logger,
		lastCheck: now(),
	}
}

// Check notifies every reminder due in (last check, now] and returns them.
func (s *Scheduler) Check(ctx context.Context) ([]model.Reminder, error) {
	reminders, err := s.repo.Reminders(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	from := s.lastCheck
	to := s.now()
	s.lastCheck = to
	s.mu.Unlock()

	var due []model.Reminder
	for _, r := range reminders {
		if r.Time.After(from) && !r.Time.After(to) {
			due = append(due, r)
		}
	}
	for _, r := range due {
		s.notifier.Notify("Reminder", r.Task)
		s.logger.InfoContext(ctx, "reminder fired", "id", r.ID, "task", r.Task)
		err := s.repo.LogActivity(ctx, model.Activity{
			Type:        "reminder",
			Description: "Reminder: " + r.Task,
			Timestamp:   to,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "log reminder activity", "err", err)
		}
	}
	return due, nil
}

// Upcoming returns reminders that have not fired yet, soonest first.
func (s *Scheduler) Upcoming(ctx context.Context) ([]model.Reminder, error) {
	reminders, err := s.repo.Reminders(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	from := s.lastCheck
	s.mu.Unlock()

	var out []model.Reminder
	for _, r := range reminders {
		if r.Time.After(from) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Reminder) int {
		return a.Time.Compare(b.Time)
	})
	return out, nil
}

// Run checks on every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Check(ctx); err != nil {
				s.logger.ErrorContext(ctx, "check reminders", "err", err)
			}
		}
	}
}
