// Package memory provides in-memory repository implementations. They honor
// the same contracts as the Postgres-backed repositories, including the
// optimistic status check and transaction id uniqueness on payment writes,
// and are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/amirasaad/payflow/pkg/domain/bank"
	"github.com/amirasaad/payflow/pkg/domain/payment"
	"github.com/amirasaad/payflow/pkg/domain/reconciliation"
	"github.com/amirasaad/payflow/pkg/repository"
	"github.com/google/uuid"
)

// PaymentRepository is an in-memory repository.PaymentRepository.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*payment.Payment
}

// NewPaymentRepository creates an empty payment store.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[uuid.UUID]*payment.Payment)}
}

func clonePayment(p *payment.Payment) *payment.Payment {
	cp := *p
	if p.Metadata != nil {
		cp.Metadata = make(map[string]any, len(p.Metadata))
		for k, v := range p.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

// transactionIDTaken reports whether another payment already carries the
// transaction id. Callers must hold the lock.
func (r *PaymentRepository) transactionIDTaken(p *payment.Payment) bool {
	if p.TransactionID == "" {
		return false
	}
	for id, stored := range r.payments {
		if id != p.ID && stored.TransactionID == p.TransactionID {
			return true
		}
	}
	return false
}

// Create stores a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transactionIDTaken(p) {
		return payment.ErrDuplicateTransactionID
	}
	r.payments[p.ID] = clonePayment(p)
	return nil
}

// Get returns a copy of the stored record.
func (r *PaymentRepository) Get(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, payment.ErrPaymentNotFound
	}
	return clonePayment(p), nil
}

// GetByTransactionID resolves a payment by its provider transaction id.
func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	if transactionID == "" {
		return nil, payment.ErrPaymentNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.TransactionID == transactionID {
			return clonePayment(p), nil
		}
	}
	return nil, payment.ErrPaymentNotFound
}

// Save persists a record, rejecting transitions the state machine forbids
// relative to the currently stored status.
func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.payments[p.ID]
	if !ok {
		return payment.ErrPaymentNotFound
	}
	if !stored.Status.CanTransitionTo(p.Status) {
		return payment.ErrInvalidTransition
	}
	if r.transactionIDTaken(p) {
		return payment.ErrDuplicateTransactionID
	}
	r.payments[p.ID] = clonePayment(p)
	return nil
}

// ListByUser returns the user's payments, newest first.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*payment.Payment
	for _, p := range r.payments {
		if p.UserID == userID {
			out = append(out, clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// BankAccountRepository is an in-memory repository.BankAccountRepository.
type BankAccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*bank.Account
}

// NewBankAccountRepository creates an empty account store.
func NewBankAccountRepository() *BankAccountRepository {
	return &BankAccountRepository{accounts: make(map[uuid.UUID]*bank.Account)}
}

// Create stores a new account.
func (r *BankAccountRepository) Create(ctx context.Context, a *bank.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

// Get returns a copy of the stored account.
func (r *BankAccountRepository) Get(ctx context.Context, id uuid.UUID) (*bank.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, bank.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

// Save persists account changes.
func (r *BankAccountRepository) Save(ctx context.Context, a *bank.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.ID]; !ok {
		return bank.ErrAccountNotFound
	}
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

// BankTransactionRepository is an in-memory repository.BankTransactionRepository.
type BankTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*bank.Transaction
}

// NewBankTransactionRepository creates an empty transaction store.
func NewBankTransactionRepository() *BankTransactionRepository {
	return &BankTransactionRepository{transactions: make(map[uuid.UUID]*bank.Transaction)}
}

// Create stores a new bank transaction.
func (r *BankTransactionRepository) Create(ctx context.Context, t *bank.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.transactions[t.ID] = &cp
	return nil
}

// Get returns a copy of the stored transaction.
func (r *BankTransactionRepository) Get(ctx context.Context, id uuid.UUID) (*bank.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, bank.ErrTransactionNotFound
	}
	cp := *t
	return &cp, nil
}

// ListByAccount returns a page of the account's transactions, newest first.
func (r *BankTransactionRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	limit, offset int,
) ([]*bank.Transaction, error) {
	r.mu.RLock()
	var all []*bank.Transaction
	for _, t := range r.transactions {
		if t.AccountID == accountID {
			cp := *t
			all = append(all, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].TransactionDate.After(all[j].TransactionDate)
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// ReconciliationRepository is an in-memory repository.ReconciliationRepository.
type ReconciliationRepository struct {
	mu      sync.RWMutex
	records []*reconciliation.Record
}

// NewReconciliationRepository creates an empty record store.
func NewReconciliationRepository() *ReconciliationRepository {
	return &ReconciliationRepository{}
}

// Append adds a record. Records are never mutated afterwards.
func (r *ReconciliationRepository) Append(ctx context.Context, rec *reconciliation.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

// ListByPayment returns every record referencing the payment.
func (r *ReconciliationRepository) ListByPayment(
	ctx context.Context,
	paymentID uuid.UUID,
) ([]*reconciliation.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*reconciliation.Record
	for _, rec := range r.records {
		if rec.PaymentID == paymentID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

var (
	_ repository.PaymentRepository         = (*PaymentRepository)(nil)
	_ repository.BankAccountRepository     = (*BankAccountRepository)(nil)
	_ repository.BankTransactionRepository = (*BankTransactionRepository)(nil)
	_ repository.ReconciliationRepository  = (*ReconciliationRepository)(nil)
)
