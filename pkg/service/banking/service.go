// Package banking implements the bank ledger gateway: account creation,
// balance queries and bank-reported transaction recording. In this scope it
// is backed by local repositories standing in for a real banking rail; the
// contract is what the rest of the pipeline depends on.
package banking

import (
	"context"
	"log/slog"

	"github.com/amirasaad/payflow/pkg/config"
	"github.com/amirasaad/payflow/pkg/currency"
	"github.com/amirasaad/payflow/pkg/domain/bank"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/amirasaad/payflow/pkg/repository"
	"github.com/google/uuid"
)

const defaultPageSize = 50

// CreateAccountInput carries an account creation request.
type CreateAccountInput struct {
	UserID        uuid.UUID
	AccountNumber string
	RoutingNumber string
	Type          bank.AccountType
	Currency      string
}

// Service provides the bank ledger gateway operations.
type Service struct {
	accounts     repository.BankAccountRepository
	transactions repository.BankTransactionRepository
	logger       *slog.Logger
}

// NewService creates a Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		accounts:     deps.BankAccounts,
		transactions: deps.BankTransactions,
		logger:       deps.Logger.With("service", "banking"),
	}
}

// CreateAccount validates the details and opens an active account with a
// zero balance.
func (s *Service) CreateAccount(ctx context.Context, input CreateAccountInput) (*bank.Account, error) {
	code := input.Currency
	if code == "" {
		code = currency.DefaultCurrency.String()
	}
	account, err := bank.NewAccount(
		input.UserID,
		input.AccountNumber,
		input.RoutingNumber,
		input.Type,
		code,
	)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("bank account created",
		"accountID", account.ID, "userID", account.UserID, "type", account.Type)
	return account, nil
}

// GetAccount returns the account.
func (s *Service) GetAccount(ctx context.Context, accountID uuid.UUID) (*bank.Account, error) {
	if accountID == uuid.Nil {
		return nil, bank.ErrAccountNotFound
	}
	return s.accounts.Get(ctx, accountID)
}

// GetBalance returns the account's current balance.
func (s *Service) GetBalance(ctx context.Context, accountID uuid.UUID) (money.Money, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return money.Money{}, err
	}
	return account.Balance, nil
}

// RecordTransactionInput carries a bank-reported movement. Reference, when
// set, is the settlement provider's transaction id and is what reconciliation
// later matches against.
type RecordTransactionInput struct {
	AccountID   uuid.UUID
	Type        bank.TransactionType
	Amount      float64
	Currency    string
	Description string
	Reference   string
}

// RecordTransaction appends a bank transaction against an active account and
// adjusts the account balance by the transaction type's direction.
func (s *Service) RecordTransaction(
	ctx context.Context,
	input RecordTransactionInput,
) (*bank.Transaction, error) {
	account, err := s.GetAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, bank.ErrAccountInactive
	}
	value, err := money.New(input.Amount, currency.Code(input.Currency))
	if err != nil {
		return nil, err
	}
	// The balance is kept in the account's currency; a movement in any other
	// currency cannot be applied to it.
	if !value.SameCurrency(account.Balance) {
		return nil, money.ErrCurrencyMismatch
	}
	tx, err := bank.NewTransaction(input.AccountID, input.Type, value, input.Description)
	if err != nil {
		return nil, err
	}
	tx.Reference = input.Reference

	newBalance, err := money.FromSmallestUnit(
		account.Balance.Amount()+input.Type.Direction()*value.Amount(),
		account.Balance.Currency(),
	)
	if err != nil {
		return nil, err
	}
	account.Balance = newBalance

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("bank transaction recorded",
		"accountID", input.AccountID, "type", input.Type, "amount", value.String())
	return tx, nil
}

// ListTransactions returns a page of the account's transactions, newest
// first.
func (s *Service) ListTransactions(
	ctx context.Context,
	accountID uuid.UUID,
	limit, offset int,
) ([]*bank.Transaction, error) {
	if accountID == uuid.Nil {
		return nil, bank.ErrAccountNotFound
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.transactions.ListByAccount(ctx, accountID, limit, offset)
}
