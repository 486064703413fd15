package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var errHandlerPanic = errors.New("job handler panicked")

// MemoryConfig tunes the in-memory queue.
type MemoryConfig struct {
	// Workers is the number of concurrent worker goroutines.
	Workers int
	// Buffer is the capacity of the waiting job channel.
	Buffer int
	Logger *slog.Logger
}

// Memory is an in-process Queue backed by a buffered channel and a worker
// pool. It is explicitly constructed and injected, never a process-wide
// singleton, so isolated instances can run side by side in tests.
type Memory struct {
	cfg    MemoryConfig
	logger *slog.Logger

	jobs   chan uuid.UUID
	mu     sync.RWMutex
	closed bool
	failed []uuid.UUID
	timers map[*time.Timer]uuid.UUID
	wg     sync.WaitGroup

	waiting   atomic.Int64
	active    atomic.Int64
	completed atomic.Int64
	failedN   atomic.Int64
}

// NewMemory builds a stopped queue. Call Process to attach the handler and
// start the workers.
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Workers <= 0 {
		cfg.Workers = 10
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 1024
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Memory{
		cfg:    cfg,
		logger: cfg.Logger.With("queue", "memory"),
		jobs:   make(chan uuid.UUID, cfg.Buffer),
		timers: make(map[*time.Timer]uuid.UUID),
	}
}

// Process registers the handler and starts the worker pool. Jobs enqueued
// before Process buffer until the workers start.
func (m *Memory) Process(handler Handler) {
	for i := 0; i < m.cfg.Workers; i++ {
		m.wg.Add(1)
		go m.work(handler)
	}
}

func (m *Memory) work(handler Handler) {
	defer m.wg.Done()
	for id := range m.jobs {
		m.waiting.Add(-1)
		m.active.Add(1)
		err := m.handle(handler, id)
		m.active.Add(-1)
		if err == nil {
			m.completed.Add(1)
			continue
		}
		var retry *retryError
		if errors.As(err, &retry) {
			if rerr := m.EnqueueIn(context.Background(), id, retry.delay); rerr == nil {
				m.logger.Info("job redelivery scheduled",
					"paymentID", id, "delay", retry.delay, "error", retry.err)
				continue
			}
		}
		m.failedN.Add(1)
		m.park(id)
		m.logger.Error("job failed", "paymentID", id, "error", err)
	}
}

func (m *Memory) handle(handler Handler, id uuid.UUID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("job handler panic", "paymentID", id, "panic", r)
			err = errHandlerPanic
		}
	}()
	return handler(context.Background(), id)
}

// push delivers a job to the waiting channel unless the queue is closed.
// Holding the read lock across the send keeps the send ordered before any
// close of the channel, which happens under the write lock.
func (m *Memory) push(ctx context.Context, paymentID uuid.UUID) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrShutdown
	}
	m.waiting.Add(1)
	select {
	case m.jobs <- paymentID:
		return nil
	case <-ctx.Done():
		m.waiting.Add(-1)
		return ctx.Err()
	}
}

// Enqueue schedules a job for immediate delivery.
func (m *Memory) Enqueue(ctx context.Context, paymentID uuid.UUID) error {
	if paymentID == uuid.Nil {
		return ErrEmptyJobID
	}
	return m.push(ctx, paymentID)
}

// EnqueueIn schedules a job for delivery after delay. Delayed jobs count as
// waiting.
func (m *Memory) EnqueueIn(ctx context.Context, paymentID uuid.UUID, delay time.Duration) error {
	if paymentID == uuid.Nil {
		return ErrEmptyJobID
	}
	if delay <= 0 {
		return m.Enqueue(ctx, paymentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrShutdown
	}
	m.waiting.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		m.fire(timer, paymentID)
	})
	m.timers[timer] = paymentID
	return nil
}

func (m *Memory) fire(timer *time.Timer, paymentID uuid.UUID) {
	m.mu.Lock()
	delete(m.timers, timer)
	m.mu.Unlock()

	// waiting was counted at schedule time; push counts it again.
	m.waiting.Add(-1)
	if err := m.push(context.Background(), paymentID); err != nil {
		m.failedN.Add(1)
		m.park(paymentID)
	}
}

func (m *Memory) park(paymentID uuid.UUID) {
	m.mu.Lock()
	m.failed = append(m.failed, paymentID)
	m.mu.Unlock()
}

// Stats returns a snapshot of the queue counters. All values are >= 0 and
// completed+failed never decreases.
func (m *Memory) Stats() Stats {
	return Stats{
		Waiting:   m.waiting.Load(),
		Active:    m.active.Load(),
		Completed: m.completed.Load(),
		Failed:    m.failedN.Load(),
	}
}

// RetryFailed moves every parked failed job back to the waiting set and
// returns how many were moved.
func (m *Memory) RetryFailed() int {
	m.mu.Lock()
	moved := m.failed
	m.failed = nil
	m.mu.Unlock()

	n := 0
	for _, id := range moved {
		if err := m.push(context.Background(), id); err != nil {
			m.park(id)
			continue
		}
		n++
	}
	return n
}

// Clear empties the waiting and failed sets. Completed and failed counters
// are left intact.
func (m *Memory) Clear() {
	m.mu.Lock()
	for timer := range m.timers {
		if timer.Stop() {
			m.waiting.Add(-1)
		}
		delete(m.timers, timer)
	}
	m.failed = nil
	m.mu.Unlock()

	for {
		select {
		case <-m.jobs:
			m.waiting.Add(-1)
		default:
			return
		}
	}
}

// Shutdown stops intake, lets buffered and in-flight jobs drain, then waits
// for the workers up to the context deadline. Pending delayed jobs are
// parked in the failed set for later inspection.
func (m *Memory) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	for timer, id := range m.timers {
		if timer.Stop() {
			m.waiting.Add(-1)
			m.failedN.Add(1)
			m.failed = append(m.failed, id)
		}
		delete(m.timers, timer)
	}
	close(m.jobs)
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		m.logger.Info("queue drained")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Queue = (*Memory)(nil)
