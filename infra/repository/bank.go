package repository

import (
	"context"
	"errors"
	"time"

	"github.com/amirasaad/payflow/pkg/currency"
	"github.com/amirasaad/payflow/pkg/domain/bank"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/amirasaad/payflow/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bankAccountRepository struct {
	db *gorm.DB
}

// NewBankAccountRepository creates a Postgres-backed bank account repository.
func NewBankAccountRepository(db *gorm.DB) repository.BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func fromAccountModel(m *BankAccount) (*bank.Account, error) {
	balance, err := money.FromSmallestUnit(m.Balance, currency.Code(m.Currency))
	if err != nil {
		return nil, err
	}
	return &bank.Account{
		ID:            m.ID,
		UserID:        m.UserID,
		AccountNumber: m.AccountNumber,
		RoutingNumber: m.RoutingNumber,
		Type:          bank.AccountType(m.AccountType),
		Balance:       balance,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

func toAccountModel(a *bank.Account) *BankAccount {
	return &BankAccount{
		Model: gorm.Model{
			CreatedAt: a.CreatedAt,
			UpdatedAt: time.Now().UTC(),
		},
		ID:            a.ID,
		UserID:        a.UserID,
		AccountNumber: a.AccountNumber,
		RoutingNumber: a.RoutingNumber,
		AccountType:   string(a.Type),
		Balance:       a.Balance.Amount(),
		Currency:      a.Balance.Currency().String(),
		IsActive:      a.IsActive,
	}
}

func (r *bankAccountRepository) Create(ctx context.Context, a *bank.Account) error {
	return r.db.WithContext(ctx).Create(toAccountModel(a)).Error
}

func (r *bankAccountRepository) Get(ctx context.Context, id uuid.UUID) (*bank.Account, error) {
	var m BankAccount
	result := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, bank.ErrAccountNotFound
		}
		return nil, result.Error
	}
	return fromAccountModel(&m)
}

func (r *bankAccountRepository) Save(ctx context.Context, a *bank.Account) error {
	return r.db.WithContext(ctx).Save(toAccountModel(a)).Error
}

type bankTransactionRepository struct {
	db *gorm.DB
}

// NewBankTransactionRepository creates a Postgres-backed bank transaction
// repository.
func NewBankTransactionRepository(db *gorm.DB) repository.BankTransactionRepository {
	return &bankTransactionRepository{db: db}
}

func fromTransactionModel(m *BankTransaction) (*bank.Transaction, error) {
	amount, err := money.FromSmallestUnit(m.Amount, currency.Code(m.Currency))
	if err != nil {
		return nil, err
	}
	return &bank.Transaction{
		ID:              m.ID,
		AccountID:       m.AccountID,
		Type:            bank.TransactionType(m.Type),
		Amount:          amount,
		Description:     m.Description,
		Reference:       m.Reference,
		TransactionDate: m.TransactionDate,
		ProcessedAt:     m.ProcessedAt,
		CreatedAt:       m.CreatedAt,
	}, nil
}

func (r *bankTransactionRepository) Create(ctx context.Context, t *bank.Transaction) error {
	model := &BankTransaction{
		Model: gorm.Model{
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.CreatedAt,
		},
		ID:              t.ID,
		AccountID:       t.AccountID,
		Type:            string(t.Type),
		Amount:          t.Amount.Amount(),
		Currency:        t.Amount.Currency().String(),
		Description:     t.Description,
		Reference:       t.Reference,
		TransactionDate: t.TransactionDate,
		ProcessedAt:     t.ProcessedAt,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *bankTransactionRepository) Get(ctx context.Context, id uuid.UUID) (*bank.Transaction, error) {
	var m BankTransaction
	result := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, bank.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return fromTransactionModel(&m)
}

func (r *bankTransactionRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	limit, offset int,
) ([]*bank.Transaction, error) {
	var models []*BankTransaction
	result := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("transaction_date desc").
		Limit(limit).
		Offset(offset).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	transactions := make([]*bank.Transaction, 0, len(models))
	for _, m := range models {
		t, err := fromTransactionModel(m)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}
