// Package payment defines the payment aggregate and its lifecycle state
// machine. A Payment is created pending, is exclusively mutated by the
// payment processor, and moves between states only along the edges the
// state machine allows.
package payment

import (
	"time"

	"github.com/amirasaad/payflow/pkg/money"
	"github.com/google/uuid"
)

// Payment represents a payment intent and its lifecycle state.
//
// Invariants:
//   - TransactionID is unique across all non-empty values (enforced by the store).
//   - RetryCount never decreases.
//   - Status changes only along the edges in the transitions table.
type Payment struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Amount        money.Money
	Status        Status
	Method        Method
	Description   string
	TransactionID string
	ExternalID    string
	ProcessingFee money.Money
	ProcessedAt   *time.Time
	FailureReason string
	RetryCount    int
	LastRetryAt   *time.Time
	Metadata      map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Builder provides a fluent API for constructing Payment instances.
type Builder struct {
	id         uuid.UUID
	userID     uuid.UUID
	amount     money.Money
	method     Method
	desc       string
	externalID string
	metadata   map[string]any
	createdAt  time.Time
}

// New creates a Builder with a fresh id and creation timestamp.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
	}
}

func (b *Builder) WithID(id uuid.UUID) *Builder             { b.id = id; return b }
func (b *Builder) WithUserID(userID uuid.UUID) *Builder     { b.userID = userID; return b }
func (b *Builder) WithAmount(amount money.Money) *Builder   { b.amount = amount; return b }
func (b *Builder) WithMethod(method Method) *Builder        { b.method = method; return b }
func (b *Builder) WithDescription(desc string) *Builder     { b.desc = desc; return b }
func (b *Builder) WithExternalID(externalID string) *Builder {
	b.externalID = externalID
	return b
}

// WithMetadata attaches open key/value data. Unknown keys are opaque
// pass-through data to the engine.
func (b *Builder) WithMetadata(metadata map[string]any) *Builder {
	b.metadata = metadata
	return b
}

// Build finalizes construction. The payment starts pending with a zero retry
// count.
func (b *Builder) Build() (*Payment, error) {
	if b.userID == uuid.Nil {
		return nil, ErrUserRequired
	}
	if !b.amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if _, err := ParseMethod(string(b.method)); err != nil {
		return nil, err
	}
	return &Payment{
		ID:          b.id,
		UserID:      b.userID,
		Amount:      b.amount,
		Status:      StatusPending,
		Method:      b.method,
		Description: b.desc,
		ExternalID:  b.externalID,
		Metadata:    b.metadata,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.createdAt,
	}, nil
}

func (p *Payment) transition(next Status) error {
	if !p.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	p.Status = next
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkProcessing moves a pending payment into processing. Processing is
// entered only after a passing fraud check; the caller owns that gate.
func (p *Payment) MarkProcessing() error {
	if p.Status != StatusPending {
		return ErrNotPending
	}
	return p.transition(StatusProcessing)
}

// MarkCompleted records a successful settlement.
func (p *Payment) MarkCompleted(transactionID string, fee money.Money, at time.Time) error {
	if err := p.transition(StatusCompleted); err != nil {
		return err
	}
	p.TransactionID = transactionID
	p.ProcessingFee = fee
	p.ProcessedAt = &at
	return nil
}

// MarkFailed records a terminal failure with its reason.
func (p *Payment) MarkFailed(reason string) error {
	if err := p.transition(StatusFailed); err != nil {
		return err
	}
	p.FailureReason = reason
	return nil
}

// MarkCancelled cancels a payment. Cancellation is legal only while pending.
func (p *Payment) MarkCancelled() error {
	if p.Status != StatusPending {
		return ErrNotCancellable
	}
	return p.transition(StatusCancelled)
}

// MarkRefunded moves a completed payment to refunded.
func (p *Payment) MarkRefunded() error {
	if p.Status != StatusCompleted {
		return ErrNotRefundable
	}
	return p.transition(StatusRefunded)
}

// RegisterFailedAttempt increments the retry counter and stamps the attempt
// time. RetryCount never decreases.
func (p *Payment) RegisterFailedAttempt(at time.Time) {
	p.RetryCount++
	p.LastRetryAt = &at
	p.UpdatedAt = at
}

// SetMetadata writes a metadata key, allocating the map on first use.
func (p *Payment) SetMetadata(key string, value any) {
	if p.Metadata == nil {
		p.Metadata = make(map[string]any)
	}
	p.Metadata[key] = value
}
