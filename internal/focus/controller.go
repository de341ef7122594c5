// Package focus owns the focus-mode lifecycle: the session context, the
// countdown timer and its badge, site blocking while a session is active,
// and the reminder scheduler.
package focus

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/Joseda-hg/focuspal/internal/assistant"
	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/Joseda-hg/focuspal/internal/notify"
	"github.com/Joseda-hg/focuspal/internal/observability"
	"github.com/Joseda-hg/focuspal/internal/repo"
)

// Kind tells which countdown is running.
type Kind string

const (
	KindNone  Kind = ""
	KindFocus Kind = "focus"
	KindBreak Kind = "break"
)

// Session exists from Enable until Disable.
type Session struct {
	StartTime    time.Time
	Distractions int
}

type Config struct {
	Repo     *repo.Repository
	Notifier notify.Notifier
	Blocker  *Blocker
	Now      func() time.Time
	// Tick is the badge refresh interval. Defaults to one second.
	Tick time.Duration
	// Minute is the length of one countdown minute. Defaults to time.Minute.
	Minute time.Duration
}

type Controller struct {
	repo     *repo.Repository
	notifier notify.Notifier
	blocker  *Blocker
	now      func() time.Time
	minute   time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	session *Session
	kind    Kind
	timer   *Timer
}

func NewController(cfg Config) *Controller {
	c := &Controller{
		repo:     cfg.Repo,
		notifier: cfg.Notifier,
		blocker:  cfg.Blocker,
		now:      cfg.Now,
		minute:   cfg.Minute,
		logger:   observability.Component("focus"),
	}
	if c.notifier == nil {
		c.notifier = notify.Log{Logger: c.logger}
	}
	if c.blocker == nil {
		c.blocker = NewBlocker(DefaultSites)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.minute <= 0 {
		c.minute = time.Minute
	}
	c.timer = NewTimer(cfg.Tick, c.onTick, c.onDone)
	return c
}

func (c *Controller) Blocker() *Blocker {
	return c.blocker
}

// Active reports whether focus mode is on.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Session returns a copy of the running session.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Countdown reports the pending timer kind and the time left on it. A
// paused countdown still counts.
func (c *Controller) Countdown() (Kind, time.Duration) {
	c.mu.Lock()
	kind := c.kind
	c.mu.Unlock()
	if !c.timer.Running() && !c.timer.Paused() {
		return KindNone, 0
	}
	return kind, c.timer.Remaining()
}

// Enable turns focus mode on. Enabling twice keeps the first session.
func (c *Controller) Enable(ctx context.Context) {
	c.mu.Lock()
	if c.session != nil {
		c.mu.Unlock()
		return
	}
	c.session = &Session{StartTime: c.now()}
	c.mu.Unlock()

	c.notifier.SetBadge("ON")
	c.notifier.Notify("Focus Mode Enabled", "Stay focused! Distracting sites will be blocked.")
	c.logger.InfoContext(ctx, "focus mode enabled")
}

// Disable ends the session, if any, and records it.
func (c *Controller) Disable(ctx context.Context) error {
	return c.end(ctx, false)
}

func (c *Controller) end(ctx context.Context, breakTaken bool) error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	if c.kind == KindFocus {
		c.timer.Stop()
		c.kind = KindNone
	}
	c.mu.Unlock()

	c.notifier.SetBadge("")
	if session == nil {
		return nil
	}
	c.notifier.Notify("Focus Mode Disabled", "Great job! Your focus session has ended.")

	end := c.now()
	seconds := end.Sub(session.StartTime).Seconds()
	record := model.FocusSession{
		StartTime:    session.StartTime,
		EndTime:      end,
		Duration:     seconds,
		Distractions: session.Distractions,
	}
	if err := c.repo.AddFocusSession(ctx, record); err != nil {
		c.logger.ErrorContext(ctx, "save focus session", "err", err)
		return err
	}
	event := model.FocusEvent{Timestamp: session.StartTime, Duration: seconds, BreakTaken: breakTaken}
	if err := c.repo.AddFocusEvent(ctx, event); err != nil {
		c.logger.ErrorContext(ctx, "save focus event", "err", err)
		return err
	}
	c.logger.InfoContext(ctx, "focus mode disabled", "seconds", seconds, "distractions", session.Distractions)
	return nil
}

// StartFocus enables focus mode and starts a focus countdown.
func (c *Controller) StartFocus(ctx context.Context, minutes int) {
	c.Enable(ctx)
	c.StartTimer(KindFocus, minutes)
}

// StartBreak ends any focus session and starts a break countdown.
func (c *Controller) StartBreak(ctx context.Context, minutes int) error {
	err := c.end(ctx, true)
	c.StartTimer(KindBreak, minutes)
	return err
}

// Apply starts the countdown a focus or break response asks for. Other
// responses are ignored.
func (c *Controller) Apply(ctx context.Context, resp model.Response) error {
	countdown, ok := resp.Data.(assistant.Countdown)
	if !ok || resp.Action != assistant.ActionStart {
		return nil
	}
	switch resp.Intent {
	case model.IntentFocus:
		c.StartFocus(ctx, countdown.Duration)
	case model.IntentBreak:
		return c.StartBreak(ctx, countdown.Duration)
	}
	return nil
}

// StartTimer replaces any running countdown.
// Lengths that would overflow a time.Duration are ignored.
func (c *Controller) StartTimer(kind Kind, minutes int) {
	if minutes <= 0 || int64(minutes) > math.MaxInt64/int64(c.minute) {
		c.logger.Warn("countdown length out of range", "kind", kind, "minutes", minutes)
		return
	}
	c.mu.Lock()
	c.kind = kind
	c.mu.Unlock()

	c.timer.Start(time.Duration(minutes) * c.minute)
	c.notifier.SetBadge(strconv.Itoa(minutes))
}

// StopTimer cancels the countdown and clears the badge. The focus session,
// if any, stays open.
func (c *Controller) StopTimer() {
	c.mu.Lock()
	c.kind = KindNone
	active := c.session != nil
	c.mu.Unlock()

	if c.timer.Stop() {
		if active {
			c.notifier.SetBadge("ON")
		} else {
			c.notifier.SetBadge("")
		}
	}
}

// PauseTimer holds the running countdown without touching the session.
func (c *Controller) PauseTimer() bool {
	return c.timer.Pause()
}

// ResumeTimer continues a paused countdown from where it stopped.
func (c *Controller) ResumeTimer() bool {
	return c.timer.Resume()
}

func (c *Controller) Paused() bool {
	return c.timer.Paused()
}

// Intercept reports whether navigation to rawURL should be blocked. Blocked
// visits count as distractions on the running session.
func (c *Controller) Intercept(ctx context.Context, rawURL string) bool {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return false
	}
	pattern, blocked := c.blocker.Blocked(rawURL)
	if blocked {
		c.session.Distractions++
	}
	c.mu.Unlock()

	if !blocked {
		return false
	}
	c.logger.InfoContext(ctx, "blocked site", "url", rawURL, "pattern", pattern)
	err := c.repo.LogActivity(ctx, model.Activity{
		Type:        "distraction",
		Description: "Visited blocked site: " + hostOf(rawURL),
		Timestamp:   c.now(),
	})
	if err != nil {
		c.logger.WarnContext(ctx, "log distraction", "err", err)
	}
	return true
}

func (c *Controller) onTick(remaining time.Duration) {
	left := int(math.Ceil(float64(remaining) / float64(c.minute)))
	if left <= 0 {
		return
	}
	c.notifier.SetBadge(strconv.Itoa(left))
}

func (c *Controller) onDone() {
	ctx := context.Background()
	c.mu.Lock()
	kind := c.kind
	c.kind = KindNone
	c.mu.Unlock()

	switch kind {
	case KindNone:
		return
	case KindBreak:
		c.notifier.SetBadge("")
		c.notifier.Notify("Break Over", "Ready for another focus session?")
	default:
		c.notifier.Notify("Timer Complete", "Time to take a break!")
		settings, err := c.repo.Settings(ctx)
		if err != nil {
			c.logger.Warn("read settings", "err", err)
			settings = model.DefaultSettings()
		}
		if settings.AutoStartBreaks {
			if err := c.StartBreak(ctx, settings.BreakMinutes); err != nil {
				c.logger.Error("start break", "err", err)
			}
			return
		}
		if err := c.end(ctx, false); err != nil {
			c.logger.Error("end focus session", "err", err)
		}
	}
}
