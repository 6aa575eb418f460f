package executor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/saweima12/minirt/executor"
	"github.com/saweima12/minirt/future"
	"github.com/saweima12/minirt/oneshot"
)

// stepWhileWaiting advances clk by step whenever the runtime parks on it,
// until ctx is done.
func stepWhileWaiting(ctx context.Context, clk *testingclock.FakeClock, step time.Duration) {
	go func() {
		for ctx.Err() == nil {
			if clk.HasWaiters() {
				clk.Step(step)
			}
			time.Sleep(time.Millisecond)
		}
	}()
}

func TestParkedRootSleep(t *testing.T) {
	clk := testingclock.NewFakeClock(epoch)
	rt := executor.New(executor.WithMode(executor.ModeParked), executor.WithClock(clk))

	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()
	stepWhileWaiting(ctx, clk, time.Second)

	_, err := executor.BlockOn(ctx, rt, rt.Sleep(time.Second))
	require.NoError(t, err)
	assert.False(t, clk.Now().Before(epoch.Add(time.Second)))
}

func TestParkedTasksPollOnlyWhenWoken(t *testing.T) {
	clk := testingclock.NewFakeClock(epoch)
	rt := executor.New(executor.WithMode(executor.ModeParked), executor.WithClock(clk))

	a := executor.Spawn(rt, future.Then(rt.Sleep(time.Second), func(future.Unit) future.Future[int] {
		return future.Value(1)
	}))
	b := executor.Spawn(rt, future.Then(rt.Sleep(2*time.Second), func(future.Unit) future.Future[int] {
		return future.Value(2)
	}))

	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()
	stepWhileWaiting(ctx, clk, time.Second)

	got, err := executor.BlockOn(ctx, rt, future.Join2[int, int](a, b))
	require.NoError(t, err)
	assert.Equal(t, future.Pair[int, int]{First: 1, Second: 2}, got)

	stats := rt.Stats()
	assert.Equal(t, uint64(4), stats.Polls)
	assert.Zero(t, stats.Timers)
}

func TestParkedYieldRequeuesItself(t *testing.T) {
	rt := executor.New(executor.WithMode(executor.ModeParked))
	h := executor.Spawn(rt, future.Seq(future.YieldNow(), future.YieldNow()))

	_, err := executor.BlockOn(testContext(t), rt, h)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), rt.Stats().Polls)
	assert.Equal(t, uint64(3), rt.Stats().Passes)
}

func TestParkedNothingToWaitFor(t *testing.T) {
	rt := executor.New(executor.WithMode(executor.ModeParked))
	h := executor.Spawn(rt, forever[int]())

	_, err := executor.BlockOn(testContext(t), rt, h)
	assert.ErrorIs(t, err, executor.ErrNeverCompleted)
	assert.Equal(t, uint64(1), rt.Stats().Polls)
}

func TestParkedIdleTimeout(t *testing.T) {
	rt := executor.New(
		executor.WithMode(executor.ModeParked),
		executor.WithIdleTimeout(20*time.Millisecond),
	)

	start := time.Now()
	_, err := executor.BlockOn(testContext(t), rt, forever[int]())
	assert.ErrorIs(t, err, executor.ErrNeverCompleted)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestParkedExternalWake(t *testing.T) {
	rt := executor.New(
		executor.WithMode(executor.ModeParked),
		executor.WithIdleTimeout(5*time.Second),
	)
	tx, rx := oneshot.New[int]()
	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = tx.Send(5)
	}()

	v, err := executor.BlockOn(testContext(t), rt, rx)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestParkedSpawnFromOtherGoroutine(t *testing.T) {
	rt := executor.New(
		executor.WithMode(executor.ModeParked),
		executor.WithIdleTimeout(5*time.Second),
	)
	tx, rx := oneshot.New[string]()
	// keeps the runtime parked with one live task until the helper arrives
	executor.Spawn(rt, rx).Detach()

	go func() {
		time.Sleep(10 * time.Millisecond)
		executor.Spawn(rt, future.Func[future.Unit](func(*future.Context) future.Poll[future.Unit] {
			_ = tx.Send("hello")
			return future.Ready(future.Unit{})
		})).Detach()
	}()

	require.NoError(t, rt.Run(testContext(t)))
	stats := rt.Stats()
	assert.Equal(t, uint64(2), stats.Completed)
	assert.Zero(t, stats.Live)
}

func TestDriveIsExclusive(t *testing.T) {
	rt := executor.New(
		executor.WithMode(executor.ModeParked),
		executor.WithIdleTimeout(5*time.Second),
	)
	tx, rx := oneshot.New[int]()
	started := make(chan struct{})
	first := true
	root := future.Func[int](func(cx *future.Context) future.Poll[int] {
		if first {
			first = false
			close(started)
		}
		return rx.Poll(cx)
	})

	type result struct {
		v   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := executor.BlockOn(testContext(t), rt, root)
		done <- result{v, err}
	}()

	<-started
	assert.ErrorIs(t, rt.Close(), executor.ErrAlreadyRunning)
	_, err := executor.BlockOn(testContext(t), rt, future.Value(0))
	assert.ErrorIs(t, err, executor.ErrAlreadyRunning)

	require.NoError(t, tx.Send(9))
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 9, res.v)
	assert.NoError(t, rt.Close())
}

func TestParkedContextCancel(t *testing.T) {
	rt := executor.New(
		executor.WithMode(executor.ModeParked),
		executor.WithIdleTimeout(5*time.Second),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := executor.BlockOn(ctx, rt, forever[int]())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParkedSleepSurvivesSecondDrive(t *testing.T) {
	clk := testingclock.NewFakeClock(epoch)
	rt := executor.New(executor.WithMode(executor.ModeParked), executor.WithClock(clk))
	root := rt.Sleep(time.Second)

	first, cancelFirst := context.WithTimeout(testContext(t), 20*time.Millisecond)
	defer cancelFirst()
	_, err := executor.BlockOn(first, rt, root)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 1, rt.Stats().Timers)

	second, cancelSecond := context.WithCancel(testContext(t))
	defer cancelSecond()
	stepWhileWaiting(second, clk, time.Second)

	_, err = executor.BlockOn(second, rt, root)
	require.NoError(t, err)
	assert.Zero(t, rt.Stats().Timers)
}
