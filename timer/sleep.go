// Package timer provides the time-based suspension primitive and the
// deadline registry wake-driven runtimes use to resume sleeping tasks.
package timer

import (
	"math"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/saweima12/minirt/future"
)

// Forever is a duration that never elapses.
const Forever = time.Duration(math.MaxInt64)

// latest is the last instant whose Unix nanoseconds fit in an int64.
var latest = time.Unix(0, math.MaxInt64)

// Sleep is ready once its clock reaches the deadline fixed at construction.
type Sleep struct {
	clock    clock.PassiveClock
	deadline time.Time
	never    bool
	reg      *registration
}

// registration is the waker a Sleep hands to a Timers registrar. It forwards
// to the waker of the latest poll, so a sleep moved to another driver keeps
// its single timer entry.
type registration struct {
	mu     sync.Mutex
	timers future.Timers
	waker  future.Waker
	fired  bool
}

func (r *registration) Wake() {
	r.mu.Lock()
	r.fired = true
	w := r.waker
	r.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

// refresh points a live registration at w. It reports false once the entry
// fired or when timers is a different registrar.
func (r *registration) refresh(timers future.Timers, w future.Waker) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fired || r.timers != timers {
		return false
	}
	r.waker = w
	return true
}

// New returns a Sleep that becomes ready d after now. A d that pushes the
// deadline past the representable range saturates to never.
func New(clk clock.PassiveClock, d time.Duration) *Sleep {
	now := clk.Now()
	if d <= 0 {
		return Until(clk, now)
	}
	if d == Forever {
		return &Sleep{clock: clk, never: true}
	}
	deadline := now.Add(d)
	if deadline.Before(now) {
		return &Sleep{clock: clk, never: true}
	}
	return Until(clk, deadline)
}

// Until returns a Sleep that is ready at t. The monotonic reading of t is
// dropped so Poll and the timer registry compare the same wall time.
func Until(clk clock.PassiveClock, t time.Time) *Sleep {
	if t.After(latest) {
		return &Sleep{clock: clk, never: true}
	}
	return &Sleep{clock: clk, deadline: t.Round(0)}
}

// Deadline reports the deadline, or false for a sleep that never ends.
func (s *Sleep) Deadline() (time.Time, bool) {
	if s.never {
		return time.Time{}, false
	}
	return s.deadline, true
}

func (s *Sleep) Poll(cx *future.Context) future.Poll[future.Unit] {
	if s.never {
		return future.Pending[future.Unit]()
	}
	if !s.clock.Now().Before(s.deadline) {
		return future.Ready(future.Unit{})
	}

	timers := cx.Timers()
	if timers == nil {
		return future.Pending[future.Unit]()
	}
	if s.reg != nil && s.reg.refresh(timers, cx.Waker()) {
		return future.Pending[future.Unit]()
	}
	s.reg = &registration{timers: timers, waker: cx.Waker()}
	timers.Register(s.deadline, s.reg)
	return future.Pending[future.Unit]()
}
