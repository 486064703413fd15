package queue_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirasaad/payflow/pkg/queue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(workers int) *queue.Memory {
	return queue.NewMemory(queue.MemoryConfig{
		Workers: workers,
		Buffer:  64,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestEnqueue_Delivers(t *testing.T) {
	q := newTestQueue(2)
	var handled atomic.Int64
	q.Process(func(ctx context.Context, paymentID uuid.UUID) error {
		handled.Add(1)
		return nil
	})

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(context.Background(), uuid.New()))
	}

	require.Eventually(t, func() bool {
		return handled.Load() == 5
	}, 2*time.Second, 10*time.Millisecond)

	stats := q.Stats()
	assert.Equal(t, int64(5), stats.Completed)
	assert.Equal(t, int64(0), stats.Failed)
	assert.Equal(t, int64(0), stats.Waiting)
}

func TestEnqueue_EmptyID(t *testing.T) {
	q := newTestQueue(1)
	require.ErrorIs(t, q.Enqueue(context.Background(), uuid.Nil), queue.ErrEmptyJobID)
	require.ErrorIs(t, q.EnqueueIn(context.Background(), uuid.Nil, time.Second), queue.ErrEmptyJobID)
}

func TestRetryIn_Redelivers(t *testing.T) {
	q := newTestQueue(1)
	var attempts atomic.Int64
	q.Process(func(ctx context.Context, paymentID uuid.UUID) error {
		if attempts.Add(1) == 1 {
			return queue.RetryIn(errors.New("transient"), 20*time.Millisecond)
		}
		return nil
	})

	require.NoError(t, q.Enqueue(context.Background(), uuid.New()))

	require.Eventually(t, func() bool {
		return attempts.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		stats := q.Stats()
		return stats.Completed == 1 && stats.Failed == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFailedJob_ParksAndRetryFailed(t *testing.T) {
	q := newTestQueue(1)
	var mu sync.Mutex
	fail := true
	var handled int
	q.Process(func(ctx context.Context, paymentID uuid.UUID) error {
		mu.Lock()
		defer mu.Unlock()
		handled++
		if fail {
			return errors.New("permanent")
		}
		return nil
	})

	require.NoError(t, q.Enqueue(context.Background(), uuid.New()))

	require.Eventually(t, func() bool {
		return q.Stats().Failed == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	fail = false
	mu.Unlock()

	assert.Equal(t, 1, q.RetryFailed())
	require.Eventually(t, func() bool {
		return q.Stats().Completed == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, q.RetryFailed(), "failed set was drained")
}

func TestHandlerPanic_Parks(t *testing.T) {
	q := newTestQueue(1)
	q.Process(func(ctx context.Context, paymentID uuid.UUID) error {
		panic("boom")
	})

	require.NoError(t, q.Enqueue(context.Background(), uuid.New()))

	require.Eventually(t, func() bool {
		return q.Stats().Failed == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClear_DropsWaitingAndDelayed(t *testing.T) {
	// No workers started, so enqueued jobs stay buffered.
	q := newTestQueue(1)
	require.NoError(t, q.Enqueue(context.Background(), uuid.New()))
	require.NoError(t, q.EnqueueIn(context.Background(), uuid.New(), time.Hour))
	assert.Equal(t, int64(2), q.Stats().Waiting)

	q.Clear()
	assert.Equal(t, int64(0), q.Stats().Waiting)
}

func TestShutdown(t *testing.T) {
	q := newTestQueue(2)
	var handled atomic.Int64
	q.Process(func(ctx context.Context, paymentID uuid.UUID) error {
		handled.Add(1)
		return nil
	})
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(context.Background(), uuid.New()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))
	assert.Equal(t, int64(3), handled.Load(), "buffered jobs drain before shutdown")

	require.ErrorIs(t, q.Enqueue(context.Background(), uuid.New()), queue.ErrShutdown)
	require.ErrorIs(t, q.EnqueueIn(context.Background(), uuid.New(), time.Second), queue.ErrShutdown)
	require.NoError(t, q.Shutdown(ctx), "shutdown is idempotent")
}

func TestShutdown_ParksDelayedJobs(t *testing.T) {
	q := newTestQueue(1)
	q.Process(func(ctx context.Context, paymentID uuid.UUID) error { return nil })
	require.NoError(t, q.EnqueueIn(context.Background(), uuid.New(), time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))
	assert.Equal(t, int64(1), q.Stats().Failed)
}
