package runtime_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/hyperway/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_DoRunsInOrder(t *testing.T) {
	loop := runtime.NewLoop(nil)
	defer loop.Close()

	var seq []int
	for i := range 5 {
		loop.Post(func() { seq = append(seq, i) })
	}
	require.NoError(t, loop.Do(context.Background(), func() error { return nil }))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seq)

	boom := errors.New("boom")
	assert.ErrorIs(t, loop.Do(context.Background(), func() error { return boom }), boom)
}

func TestLoop_WaitCoversAsyncAndTimers(t *testing.T) {
	loop := runtime.NewLoop(nil)
	defer loop.Close()

	var ran atomic.Int32
	done := loop.Async()
	go func() {
		time.Sleep(20 * time.Millisecond)
		done(func() { ran.Add(1) })
	}()
	loop.AfterFunc(30*time.Millisecond, func() { ran.Add(1) })
	stop := loop.AfterFunc(time.Hour, func() { ran.Add(100) })
	assert.True(t, stop())
	assert.False(t, stop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, loop.Wait(ctx))
	assert.Equal(t, int32(2), ran.Load())
}

func TestLoop_ReportAndRecover(t *testing.T) {
	loop := runtime.NewLoop(nil)
	defer loop.Close()

	loop.Report(errors.New("async"))
	loop.Post(func() { panic("oops") })

	err := loop.Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "async")
	assert.Contains(t, err.Error(), "oops")
	assert.NoError(t, loop.Wait(context.Background()), "errors are returned once")
}

func TestLoop_Closed(t *testing.T) {
	loop := runtime.NewLoop(nil)
	loop.Close()

	assert.False(t, loop.Post(func() {}))
	assert.ErrorIs(t, loop.Do(context.Background(), func() error { return nil }), runtime.ErrLoopClosed)
	assert.NoError(t, loop.Wait(context.Background()))
}
