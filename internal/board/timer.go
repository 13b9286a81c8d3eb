package board

import (
	"sync"
	"time"
)

// Timer is the round countdown. It exists only while a round is started:
// starting a round arms it, ending or cancelling the round disarms it.
// Expiry is display/alarm only and never mutates round state.
type Timer struct {
	mu       sync.Mutex
	deadline time.Time
	stop     *time.Timer
}

// Start arms the countdown for the given duration. onExpire fires once when
// the countdown reaches zero, unless Stop is called first. Re-arming an
// active timer replaces the previous countdown.
func (t *Timer) Start(d time.Duration, onExpire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		t.stop.Stop()
	}
	t.deadline = time.Now().Add(d)
	t.stop = time.AfterFunc(d, func() {
		t.mu.Lock()
		t.stop = nil
		t.deadline = time.Time{}
		t.mu.Unlock()
		if onExpire != nil {
			onExpire()
		}
	})
}

// Stop disarms the countdown. Safe to call when not armed.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		t.stop.Stop()
		t.stop = nil
	}
	t.deadline = time.Time{}
}

// Active reports whether a countdown is armed.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// Remaining returns the time left on the countdown, zero when not armed.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop == nil {
		return 0
	}
	if remaining := time.Until(t.deadline); remaining > 0 {
		return remaining
	}
	return 0
}
