// Package queue provides the durable work queue feeding the payment workers.
//
// Delivery is at-least-once: a job may be delivered more than once after a
// worker crash or redelivery, so handlers must be idempotent with respect to
// the payment id they receive.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyJobID is returned when enqueueing without a payment id.
	ErrEmptyJobID = errors.New("job payment id is required")
	// ErrShutdown is returned when enqueueing after shutdown began.
	ErrShutdown = errors.New("queue is shut down")
)

// Handler processes one delivered job. Returning nil marks the job completed.
// Returning an error wrapped by RetryIn schedules a delayed redelivery; any
// other error parks the job in the failed set.
type Handler func(ctx context.Context, paymentID uuid.UUID) error

// Stats is a snapshot of the queue's counters. Completed and Failed are
// monotonically non-decreasing over the process lifetime.
type Stats struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Queue is the contract the payment processor dispatches through.
type Queue interface {
	// Process starts the worker pool consuming jobs with the handler. It is
	// called once at startup, before any Enqueue.
	Process(handler Handler)
	// Enqueue schedules a job for immediate delivery.
	Enqueue(ctx context.Context, paymentID uuid.UUID) error
	// EnqueueIn schedules a job for delivery after the given delay.
	EnqueueIn(ctx context.Context, paymentID uuid.UUID, delay time.Duration) error
	// Stats returns the current counter snapshot.
	Stats() Stats
	// RetryFailed re-enqueues every parked failed job and returns how many
	// were moved.
	RetryFailed() int
	// Clear empties the waiting and failed sets. Administrative use only.
	Clear()
	// Shutdown stops intake, drains in-flight jobs and releases resources.
	Shutdown(ctx context.Context) error
}

// retryError asks the queue to redeliver the job after a delay.
type retryError struct {
	err   error
	delay time.Duration
}

func (r *retryError) Error() string { return r.err.Error() }
func (r *retryError) Unwrap() error { return r.err }

// RetryIn wraps a handler error with a redelivery request. The queue owns the
// delay mechanics; the handler owns the backoff policy.
func RetryIn(err error, delay time.Duration) error {
	return &retryError{err: err, delay: delay}
}
