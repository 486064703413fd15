// Package bank holds the entities owned by the bank ledger gateway: accounts
// and the transactions a banking rail reports against them. The engine only
// reads and writes these through the gateway contract.
package bank

import (
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/payflow/pkg/currency"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrAccountNotFound is returned when an account id does not resolve.
	ErrAccountNotFound = errors.New("bank account not found")
	// ErrTransactionNotFound is returned when a transaction id does not resolve.
	ErrTransactionNotFound = errors.New("bank transaction not found")
	// ErrInvalidAccountNumber is returned for an empty account number.
	ErrInvalidAccountNumber = errors.New("account number is required")
	// ErrInvalidRoutingNumber is returned when a routing number is not nine digits.
	ErrInvalidRoutingNumber = errors.New("routing number must be 9 digits")
	// ErrAmountNotPositive is returned when a transaction amount is not positive.
	ErrAmountNotPositive = errors.New("transaction amount must be positive")
	// ErrAccountInactive is returned when recording against a closed account.
	ErrAccountInactive = errors.New("bank account is not active")
	// ErrUnknownAccountType is returned for unrecognized account types.
	ErrUnknownAccountType = errors.New("unknown account type")
	// ErrUnknownTransactionType is returned for unrecognized transaction types.
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)

// AccountType classifies a bank account.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
	AccountCredit     AccountType = "credit"
)

// ParseAccountType converts a wire string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountChecking, AccountSavings, AccountInvestment, AccountCredit:
		return AccountType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAccountType, s)
}

// TransactionType classifies a bank transaction.
type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxTransfer   TransactionType = "transfer"
	TxFee        TransactionType = "fee"
	TxInterest   TransactionType = "interest"
)

// ParseTransactionType converts a wire string into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TxDeposit, TxWithdrawal, TxTransfer, TxFee, TxInterest:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTransactionType, s)
}

// Direction returns +1 for credits to the account balance and -1 for debits.
func (t TransactionType) Direction() int64 {
	switch t {
	case TxDeposit, TxInterest:
		return 1
	default:
		return -1
	}
}

// Account is a bank account as reported by the banking rail.
type Account struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountNumber string
	RoutingNumber string
	Type          AccountType
	Balance       money.Money
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAccount validates account details and builds an active account with a
// zero balance.
func NewAccount(
	userID uuid.UUID,
	accountNumber, routingNumber string,
	accountType AccountType,
	currencyCode string,
) (*Account, error) {
	if accountNumber == "" {
		return nil, ErrInvalidAccountNumber
	}
	if !validRoutingNumber(routingNumber) {
		return nil, ErrInvalidRoutingNumber
	}
	if _, err := ParseAccountType(string(accountType)); err != nil {
		return nil, err
	}
	balance, err := money.FromSmallestUnit(0, currency.Code(currencyCode))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: accountNumber,
		RoutingNumber: routingNumber,
		Type:          accountType,
		Balance:       balance,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Transaction is a single bank-reported movement against an account.
type Transaction struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	Type            TransactionType
	Amount          money.Money
	Description     string
	Reference       string
	TransactionDate time.Time
	ProcessedAt     time.Time
	CreatedAt       time.Time
}

// NewTransaction validates and builds a bank transaction.
func NewTransaction(
	accountID uuid.UUID,
	txType TransactionType,
	amount money.Money,
	description string,
) (*Transaction, error) {
	if accountID == uuid.Nil {
		return nil, ErrAccountNotFound
	}
	if _, err := ParseTransactionType(string(txType)); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	now := time.Now().UTC()
	return &Transaction{
		ID:              uuid.New(),
		AccountID:       accountID,
		Type:            txType,
		Amount:          amount,
		Description:     description,
		TransactionDate: now,
		ProcessedAt:     now,
		CreatedAt:       now,
	}, nil
}

func validRoutingNumber(s string) bool {
	if len(s) != 9 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
