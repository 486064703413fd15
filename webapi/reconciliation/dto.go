package reconciliation

import (
	"time"

	"github.com/amirasaad/payflow/pkg/domain/reconciliation"
)

//revive:disable

// ReconcileRequest represents the request body for matching one bank
// transaction against one payment.
type ReconcileRequest struct {
	BankTransactionID string `json:"bank_transaction_id" validate:"required,uuid4"`
	PaymentID         string `json:"payment_id" validate:"required,uuid4"`
	Notes             string `json:"notes" validate:"omitempty,max=255"`
}

// RecordDTO is the API response representation of a reconciliation record.
type RecordDTO struct {
	ID                string    `json:"id"`
	BankTransactionID string    `json:"bank_transaction_id"`
	PaymentID         string    `json:"payment_id"`
	Amount            float64   `json:"amount"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	Discrepancy       *int64    `json:"discrepancy,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	ReconciledAt      time.Time `json:"reconciled_at"`
}

// ToDTO maps a reconciliation record to its API representation.
func ToDTO(r *reconciliation.Record) RecordDTO {
	return RecordDTO{
		ID:                r.ID.String(),
		BankTransactionID: r.BankTransactionID.String(),
		PaymentID:         r.PaymentID.String(),
		Amount:            r.Amount.Float(),
		Currency:          r.Amount.Currency().String(),
		Status:            string(r.Status),
		Discrepancy:       r.Discrepancy,
		Notes:             r.Notes,
		ReconciledAt:      r.ReconciledAt,
	}
}

// ToDTOs maps a list of reconciliation records.
func ToDTOs(records []*reconciliation.Record) []RecordDTO {
	out := make([]RecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, ToDTO(r))
	}
	return out
}
