package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsSubmittedWork(t *testing.T) {
	p := New(4)
	var ran atomic.Int32

	for i := 0; i < 10; i++ {
		err := p.Submit(context.Background(), func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
		require.NoError(t, err)
	}
	p.Wait()

	assert.Equal(t, int32(10), ran.Load())
	m := p.Metrics()
	assert.Equal(t, int64(10), m.Completed)
	assert.Equal(t, int64(0), m.Active)
}

func TestPool_BoundsConcurrency(t *testing.T) {
	p := New(2)
	var current, peak atomic.Int32
	var mu sync.Mutex

	for i := 0; i < 8; i++ {
		err := p.Submit(context.Background(), func(ctx context.Context) error {
			n := current.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
			return nil
		})
		require.NoError(t, err)
	}
	p.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPool_SubmitRespectsContextWhileBlocked(t *testing.T) {
	p := New(1)
	release := make(chan struct{})

	err := p.Submit(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = p.Submit(ctx, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	p.Wait()
}

func TestPool_ShutdownRejectsNewWork(t *testing.T) {
	p := New(2)
	p.Shutdown()

	err := p.Submit(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrShutdown)

	// Idempotent.
	p.Shutdown()
}

func TestPool_ShutdownDrainsActiveWork(t *testing.T) {
	p := New(2)
	var done atomic.Int32

	for i := 0; i < 2; i++ {
		err := p.Submit(context.Background(), func(ctx context.Context) error {
			time.Sleep(10 * time.Millisecond)
			done.Add(1)
			return nil
		})
		require.NoError(t, err)
	}
	p.Shutdown()

	assert.Equal(t, int32(2), done.Load())
}

func TestPool_CountsFailuresAndPanics(t *testing.T) {
	p := New(2)

	require.NoError(t, p.Submit(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	}))
	require.NoError(t, p.Submit(context.Background(), func(ctx context.Context) error {
		panic("boom")
	}))
	require.NoError(t, p.Submit(context.Background(), func(ctx context.Context) error {
		return nil
	}))
	p.Wait()

	m := p.Metrics()
	assert.Equal(t, int64(1), m.Completed)
	assert.Equal(t, int64(2), m.Failed)
	assert.Equal(t, int64(1), m.Panics)
}
