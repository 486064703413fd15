// Package repository declares the persistence contracts the services depend
// on. Implementations live under infra/repository (GORM/Postgres and an
// in-memory variant for tests and local runs).
package repository

import (
	"context"

	"github.com/amirasaad/payflow/pkg/domain/bank"
	"github.com/amirasaad/payflow/pkg/domain/payment"
	"github.com/amirasaad/payflow/pkg/domain/reconciliation"
	"github.com/google/uuid"
)

// PaymentRepository stores payment records.
//
// Save is optimistic: it must reject a write whose status transition from
// the currently stored row is not legal under the payment state machine,
// returning payment.ErrInvalidTransition. This keeps per-payment transitions
// strictly sequential even under concurrent redelivery.
type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	Get(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error)
	Save(ctx context.Context, p *payment.Payment) error
	// ListByUser returns the user's payments, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*payment.Payment, error)
}

// BankAccountRepository stores bank accounts.
type BankAccountRepository interface {
	Create(ctx context.Context, a *bank.Account) error
	Get(ctx context.Context, id uuid.UUID) (*bank.Account, error)
	Save(ctx context.Context, a *bank.Account) error
}

// BankTransactionRepository stores bank-reported transactions.
type BankTransactionRepository interface {
	Create(ctx context.Context, t *bank.Transaction) error
	Get(ctx context.Context, id uuid.UUID) (*bank.Transaction, error)
	// ListByAccount returns a page of the account's transactions, newest
	// first, of size <= limit.
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*bank.Transaction, error)
}

// ReconciliationRepository appends reconciliation records. Records are never
// updated or deleted; corrections are new records.
type ReconciliationRepository interface {
	Append(ctx context.Context, r *reconciliation.Record) error
	ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]*reconciliation.Record, error)
}
