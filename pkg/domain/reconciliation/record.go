// Package reconciliation defines the append-only records produced when
// bank-reported transactions are matched against internal payments. Records
// are never mutated after creation; corrections are new records.
package reconciliation

import (
	"errors"
	"time"

	"github.com/amirasaad/payflow/pkg/money"
	"github.com/google/uuid"
)

// ErrMissingReference is returned when a reconciliation request carries an
// empty bank transaction or payment id.
var ErrMissingReference = errors.New("bank transaction id and payment id are required")

// Status is the outcome of matching one bank transaction against one payment.
type Status string

const (
	StatusPending     Status = "pending"
	StatusMatched     Status = "matched"
	StatusUnmatched   Status = "unmatched"
	StatusDiscrepancy Status = "discrepancy"
)

// Record is one reconciliation outcome. Discrepancy holds the signed
// difference bank minus payment in the smallest currency unit, set only when
// Status is StatusDiscrepancy.
type Record struct {
	ID                uuid.UUID
	BankTransactionID uuid.UUID
	PaymentID         uuid.UUID
	Amount            money.Money
	Status            Status
	Discrepancy       *int64
	Notes             string
	ReconciledAt      time.Time
	CreatedAt         time.Time
}

// NewRecord builds a reconciliation record stamped with the current time.
func NewRecord(
	bankTransactionID, paymentID uuid.UUID,
	amount money.Money,
	status Status,
	notes string,
) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:                uuid.New(),
		BankTransactionID: bankTransactionID,
		PaymentID:         paymentID,
		Amount:            amount,
		Status:            status,
		Notes:             notes,
		ReconciledAt:      now,
		CreatedAt:         now,
	}
}

// WithDiscrepancy sets the signed difference on a freshly built record.
// It is part of construction, not a later mutation.
func (r *Record) WithDiscrepancy(delta int64) *Record {
	r.Status = StatusDiscrepancy
	r.Discrepancy = &delta
	return r
}
