// Package notify is the notification and badge port. Calls are
// fire-and-forget; implementations must not block the caller.
package notify

import (
	"log/slog"
	"sync"
)

type Notifier interface {
	Notify(title, message string)
	SetBadge(text string)
}

// Log writes notifications to a structured logger.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(title, message string) {
	l.logger().Info("notification", "title", title, "message", message)
}

func (l Log) SetBadge(text string) {
	l.logger().Debug("badge", "text", text)
}

func (l Log) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

type Notification struct {
	Title   string
	Message string
}

// Recorder keeps every notification and the latest badge in memory.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
	badge         string
}

func (r *Recorder) Notify(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Title: title, Message: message})
}

func (r *Recorder) SetBadge(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.badge = text
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

func (r *Recorder) Badge() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.badge
}

// Multi fans out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(title, message string) {
	for _, n := range m {
		n.Notify(title, message)
	}
}

func (m Multi) SetBadge(text string) {
	for _, n := range m {
		n.SetBadge(text)
	}
}
