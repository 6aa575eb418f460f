package executor

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

type Mode int

const (
	// ModeBusyPoll re-polls every pending task on every drain pass.
	ModeBusyPoll Mode = iota
	// ModeParked re-polls only woken tasks and parks when idle.
	ModeParked
)

func (m Mode) String() string {
	switch m {
	case ModeBusyPoll:
		return "busy"
	case ModeParked:
		return "parked"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "busy", "busy-poll", "":
		return ModeBusyPoll, nil
	case "parked", "park", "wake":
		return ModeParked, nil
	default:
		return 0, fmt.Errorf("unknown scheduling mode %q", s)
	}
}

type Option func(*Runtime)

func WithMode(m Mode) Option {
	return func(rt *Runtime) {
		rt.mode = m
	}
}

// WithClock replaces the wall clock used by sleeps and parking.
func WithClock(c clock.Clock) Option {
	return func(rt *Runtime) {
		rt.clock = c
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.baseLog = l
		}
	}
}

// WithMaxPasses makes a drive fail with ErrNeverCompleted once it has run
// n drain passes without finishing. Zero means unbounded.
func WithMaxPasses(n uint64) Option {
	return func(rt *Runtime) {
		rt.maxPasses = n
	}
}

// WithIdleTimeout sets how long a parked runtime with no runnable task and
// no pending timer waits for an outside wake before giving up.
func WithIdleTimeout(d time.Duration) Option {
	return func(rt *Runtime) {
		rt.idleTimeout = d
	}
}

// WithBeforePass installs a hook called before each drain pass with the
// 1-based pass number of the current drive.
func WithBeforePass(f func(pass uint64)) Option {
	return func(rt *Runtime) {
		rt.beforePass = f
	}
}

func WithMetrics(reg prometheus.Registerer) Option {
	return func(rt *Runtime) {
		rt.registerer = reg
	}
}

// SpawnOption tunes a single Spawn call.
type SpawnOption func(*spawnConfig)

type spawnConfig struct {
	name string
}

// Named labels the task in logs and Inspect.
func Named(name string) SpawnOption {
	return func(c *spawnConfig) {
		c.name = name
	}
}
