package focus

import (
	"context"
	"sync"
	"time"
)

// Timer is a single-shot countdown with a periodic tick for display
// refreshes. Callbacks never run while the timer's lock is held. Once Stop
// returns or onDone starts, no further tick is delivered for that countdown.
type Timer struct {
	tick   time.Duration
	onTick func(remaining time.Duration)
	onDone func()

	mu       sync.Mutex
	gen      uint64
	timer    *time.Timer
	cancel   context.CancelFunc
	ticking  chan struct{}
	deadline time.Time
	paused   time.Duration
}

func NewTimer(tick time.Duration, onTick func(time.Duration), onDone func()) *Timer {
	if tick <= 0 {
		tick = time.Second
	}
	return &Timer{tick: tick, onTick: onTick, onDone: onDone}
}

// Start arms the timer for d, replacing any countdown already running.
func (t *Timer) Start(d time.Duration) {
	t.mu.Lock()
	prev := t.startLocked(d)
	t.mu.Unlock()

	wait(prev)
}

func (t *Timer) startLocked(d time.Duration) chan struct{} {
	prev, _ := t.stopLocked()
	t.paused = 0
	t.gen++
	gen := t.gen
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.deadline = time.Now().Add(d)
	if t.onTick != nil {
		t.ticking = make(chan struct{})
		go t.ticks(ctx, gen, t.ticking)
	}
	t.timer = time.AfterFunc(d, func() { t.fire(gen) })
	return prev
}

// Stop cancels the countdown, paused or not. It reports whether one was
// pending; stopping a stopped timer is a no-op.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	wasPaused := t.paused > 0
	t.paused = 0
	ticking, stopped := t.stopLocked()
	t.mu.Unlock()

	wait(ticking)
	return stopped || wasPaused
}

// Pause halts a running countdown and keeps what is left of it for Resume.
// It reports whether a countdown was running.
func (t *Timer) Pause() bool {
	t.mu.Lock()
	if t.timer == nil {
		t.mu.Unlock()
		return false
	}
	left := time.Until(t.deadline)
	ticking, _ := t.stopLocked()
	// An expired countdown whose callback is still queued resumes at once.
	t.paused = max(left, time.Nanosecond)
	t.mu.Unlock()

	wait(ticking)
	return true
}

// Resume restarts a paused countdown with the time it had left.
func (t *Timer) Resume() bool {
	t.mu.Lock()
	if t.paused <= 0 {
		t.mu.Unlock()
		return false
	}
	prev := t.startLocked(t.paused)
	t.mu.Unlock()

	wait(prev)
	return true
}

func (t *Timer) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused > 0
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Remaining is zero when the timer is neither running nor paused.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.paused > 0 {
		return t.paused
	}
	if t.timer == nil {
		return 0
	}
	return max(time.Until(t.deadline), 0)
}

func (t *Timer) stopLocked() (chan struct{}, bool) {
	if t.timer == nil {
		return nil, false
	}
	t.timer.Stop()
	ticking := t.clearLocked()
	return ticking, true
}

func (t *Timer) clearLocked() chan struct{} {
	t.cancel()
	ticking := t.ticking
	t.timer = nil
	t.cancel = nil
	t.ticking = nil
	t.deadline = time.Time{}
	return ticking
}

func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.timer == nil {
		t.mu.Unlock()
		return
	}
	ticking := t.clearLocked()
	t.mu.Unlock()

	wait(ticking)
	if t.onDone != nil {
		t.onDone()
	}
}

func (t *Timer) ticks(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			if gen != t.gen || t.timer == nil {
				t.mu.Unlock()
				return
			}
			remaining := max(time.Until(t.deadline), 0)
			t.mu.Unlock()
			t.onTick(remaining)
		}
	}
}

func wait(ch chan struct{}) {
	if ch != nil {
		<-ch
	}
}
