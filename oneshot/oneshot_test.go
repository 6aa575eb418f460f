package oneshot_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saweima12/minirt/future"
	"github.com/saweima12/minirt/oneshot"
)

func TestSendThenReceiveOnce(t *testing.T) {
	tx, rx := oneshot.New[int]()
	woken := 0
	cx := future.NewContext(future.WakerFunc(func() { woken++ }), nil)

	assert.True(t, rx.Poll(cx).IsPending())

	require.NoError(t, tx.Send(42))
	assert.Equal(t, 1, woken)

	v, ok := rx.Poll(cx).Get()
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, err := rx.TryPoll(cx)
	assert.ErrorIs(t, err, oneshot.ErrConsumed)
	assert.PanicsWithError(t, oneshot.ErrConsumed.Error(), func() {
		rx.Poll(cx)
	})
}

func TestSecondSendRejected(t *testing.T) {
	tx, _ := oneshot.New[string]()
	require.NoError(t, tx.Send("a"))
	assert.ErrorIs(t, tx.Send("b"), oneshot.ErrAlreadySent)
}

func TestSendAfterReceiverClosed(t *testing.T) {
	tx, rx := oneshot.New[int]()
	rx.Close()
	assert.ErrorIs(t, tx.Send(1), oneshot.ErrReceiverClosed)
}

func TestPollAfterReceiverClosed(t *testing.T) {
	cx := future.NewContext(nil, nil)

	tx, rx := oneshot.New[int]()
	require.NoError(t, tx.Send(7))
	rx.Close()

	p, err := rx.TryPoll(cx)
	assert.ErrorIs(t, err, oneshot.ErrReceiverClosed)
	assert.True(t, p.IsPending())
	assert.Panics(t, func() { rx.Poll(cx) })

	_, empty := oneshot.New[int]()
	empty.Close()
	_, err = empty.TryPoll(cx)
	assert.ErrorIs(t, err, oneshot.ErrReceiverClosed)
}

func TestSenderCloseDoesNotWake(t *testing.T) {
	tx, rx := oneshot.New[int]()
	woken := false
	cx := future.NewContext(future.WakerFunc(func() { woken = true }), nil)

	assert.True(t, rx.Poll(cx).IsPending())
	tx.Close()
	assert.False(t, woken)

	_, err := rx.TryPoll(cx)
	assert.ErrorIs(t, err, oneshot.ErrSenderClosed)

	// closing after a value was delivered keeps the value
	tx2, rx2 := oneshot.New[int]()
	require.NoError(t, tx2.Send(5))
	tx2.Close()
	v, err := rx2.TryPoll(cx)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Value())
}

func TestSendFromAnotherGoroutine(t *testing.T) {
	tx, rx := oneshot.New[int]()
	woke := make(chan struct{}, 1)
	cx := future.NewContext(future.WakerFunc(func() { woke <- struct{}{} }), nil)
	require.True(t, rx.Poll(cx).IsPending())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = tx.Send(9)
	}()
	wg.Wait()
	<-woke

	assert.Equal(t, 9, rx.Poll(cx).Value())
}
