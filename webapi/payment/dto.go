package payment

import (
	"time"

	"github.com/amirasaad/payflow/pkg/domain/payment"
)

//revive:disable

// SubmitRequest represents the request body for submitting a payment.
type SubmitRequest struct {
	UserID      string         `json:"user_id" validate:"required,uuid4"`
	Amount      float64        `json:"amount" validate:"required,gt=0"`
	Currency    string         `json:"currency" validate:"omitempty,len=3,uppercase,alpha"`
	Method      string         `json:"method" validate:"required,oneof=credit_card debit_card bank_transfer digital_wallet cryptocurrency"`
	Description string         `json:"description" validate:"omitempty,max=255"`
	ExternalID  string         `json:"external_id" validate:"omitempty,max=64"`
	Metadata    map[string]any `json:"metadata"`
}

// RefundRequest represents the request body for refunding a payment. A nil
// amount refunds the full payment.
type RefundRequest struct {
	Amount *float64 `json:"amount" validate:"omitempty,gt=0"`
}

// PaymentDTO is the API response representation of a payment record.
type PaymentDTO struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Amount        float64        `json:"amount"`
	Currency      string         `json:"currency"`
	Status        string         `json:"status"`
	Method        string         `json:"method"`
	Description   string         `json:"description,omitempty"`
	TransactionID string         `json:"transaction_id,omitempty"`
	ExternalID    string         `json:"external_id,omitempty"`
	ProcessingFee float64        `json:"processing_fee,omitempty"`
	ProcessedAt   *time.Time     `json:"processed_at,omitempty"`
	FailureReason string         `json:"failure_reason,omitempty"`
	RetryCount    int            `json:"retry_count"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// StatusDTO is the API response for a status-only query.
type StatusDTO struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ToDTO maps a payment record to its API representation.
func ToDTO(p *payment.Payment) PaymentDTO {
	dto := PaymentDTO{
		ID:            p.ID.String(),
		UserID:        p.UserID.String(),
		Amount:        p.Amount.Float(),
		Currency:      p.Amount.Currency().String(),
		Status:        p.Status.String(),
		Method:        p.Method.String(),
		Description:   p.Description,
		TransactionID: p.TransactionID,
		ExternalID:    p.ExternalID,
		ProcessedAt:   p.ProcessedAt,
		FailureReason: p.FailureReason,
		RetryCount:    p.RetryCount,
		Metadata:      p.Metadata,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.ProcessingFee.Amount() != 0 {
		dto.ProcessingFee = p.ProcessingFee.Float()
	}
	return dto
}

// ToDTOs maps a list of payment records.
func ToDTOs(payments []*payment.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		out = append(out, ToDTO(p))
	}
	return out
}
