// Package events defines the lifecycle events the payment pipeline emits on
// the event bus. Subscribers are observational (audit logging, projections);
// the pipeline never depends on a subscriber's result.
package events

import (
	"github.com/google/uuid"
)

// Event is the contract every published event satisfies.
type Event interface {
	Type() string
}

// PaymentSubmitted is emitted when a payment intent is accepted and persisted.
type PaymentSubmitted struct {
	PaymentID uuid.UUID
	UserID    uuid.UUID
	Amount    float64
	Currency  string
	Method    string
}

func (PaymentSubmitted) Type() string { return "PaymentSubmitted" }

// PaymentRejected is emitted when risk screening fails a payment.
type PaymentRejected struct {
	PaymentID   uuid.UUID
	UserID      uuid.UUID
	RiskScore   float64
	RiskFactors []string
}

func (PaymentRejected) Type() string { return "PaymentRejected" }

// PaymentSettled is emitted when settlement completes successfully.
type PaymentSettled struct {
	PaymentID     uuid.UUID
	TransactionID string
	ProcessingFee int64
}

func (PaymentSettled) Type() string { return "PaymentSettled" }

// PaymentFailed is emitted when settlement fails terminally.
type PaymentFailed struct {
	PaymentID  uuid.UUID
	Reason     string
	RetryCount int
}

func (PaymentFailed) Type() string { return "PaymentFailed" }

// PaymentRefunded is emitted when a completed payment is refunded.
type PaymentRefunded struct {
	PaymentID           uuid.UUID
	RefundTransactionID string
	Amount              float64
}

func (PaymentRefunded) Type() string { return "PaymentRefunded" }
