package banking

import (
	"time"

	"github.com/amirasaad/payflow/pkg/domain/bank"
)

//revive:disable

// CreateAccountRequest represents the request body for opening a bank account.
type CreateAccountRequest struct {
	UserID        string `json:"user_id" validate:"required,uuid4"`
	AccountNumber string `json:"account_number" validate:"required,min=6,max=34"`
	RoutingNumber string `json:"routing_number" validate:"required,len=9,numeric"`
	Type          string `json:"type" validate:"required,oneof=checking savings investment credit"`
	Currency      string `json:"currency" validate:"omitempty,len=3,uppercase,alpha"`
}

// RecordTransactionRequest represents the request body for recording a
// bank-reported transaction.
type RecordTransactionRequest struct {
	Type        string  `json:"type" validate:"required,oneof=deposit withdrawal transfer fee interest"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3,uppercase,alpha"`
	Description string  `json:"description" validate:"omitempty,max=255"`
	Reference   string  `json:"reference" validate:"omitempty,max=64"`
}

// AccountDTO is the API response representation of a bank account.
type AccountDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	RoutingNumber string    `json:"routing_number"`
	Type          string    `json:"type"`
	Balance       float64   `json:"balance"`
	Currency      string    `json:"currency"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// BalanceDTO is the API response for a balance query.
type BalanceDTO struct {
	AccountID string  `json:"account_id"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
}

// TransactionDTO is the API response representation of a bank transaction.
type TransactionDTO struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	Type            string    `json:"type"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Description     string    `json:"description,omitempty"`
	Reference       string    `json:"reference,omitempty"`
	TransactionDate time.Time `json:"transaction_date"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// ToAccountDTO maps a bank account to its API representation.
func ToAccountDTO(a *bank.Account) AccountDTO {
	return AccountDTO{
		ID:            a.ID.String(),
		UserID:        a.UserID.String(),
		AccountNumber: a.AccountNumber,
		RoutingNumber: a.RoutingNumber,
		Type:          string(a.Type),
		Balance:       a.Balance.Float(),
		Currency:      a.Balance.Currency().String(),
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
	}
}

// ToTransactionDTO maps a bank transaction to its API representation.
func ToTransactionDTO(t *bank.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:              t.ID.String(),
		AccountID:       t.AccountID.String(),
		Type:            string(t.Type),
		Amount:          t.Amount.Float(),
		Currency:        t.Amount.Currency().String(),
		Description:     t.Description,
		Reference:       t.Reference,
		TransactionDate: t.TransactionDate,
		ProcessedAt:     t.ProcessedAt,
	}
}

// ToTransactionDTOs maps a list of bank transactions.
func ToTransactionDTOs(txs []*bank.Transaction) []TransactionDTO {
	out := make([]TransactionDTO, 0, len(txs))
	for _, t := range txs {
		out = append(out, ToTransactionDTO(t))
	}
	return out
}
