package banking_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/payflow/infra/repository/memory"
	"github.com/amirasaad/payflow/pkg/config"
	"github.com/amirasaad/payflow/pkg/domain/bank"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/amirasaad/payflow/pkg/service/banking"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*banking.Service, *memory.BankAccountRepository) {
	t.Helper()
	accounts := memory.NewBankAccountRepository()
	deps := config.Deps{
		BankAccounts:     accounts,
		BankTransactions: memory.NewBankTransactionRepository(),
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return banking.NewService(deps), accounts
}

func openAccount(t *testing.T, svc *banking.Service) *bank.Account {
	t.Helper()
	account, err := svc.CreateAccount(context.Background(), banking.CreateAccountInput{
		UserID:        uuid.New(),
		AccountNumber: "123456789012",
		RoutingNumber: "021000021",
		Type:          bank.AccountChecking,
		Currency:      "USD",
	})
	require.NoError(t, err)
	return account
}

func TestCreateAccount(t *testing.T) {
	svc, _ := newService(t)

	t.Run("opens active with zero balance", func(t *testing.T) {
		account := openAccount(t, svc)
		assert.True(t, account.IsActive)
		assert.True(t, account.Balance.IsZero())
		assert.Equal(t, "USD", account.Balance.Currency().String())
	})

	t.Run("defaults the currency", func(t *testing.T) {
		account, err := svc.CreateAccount(context.Background(), banking.CreateAccountInput{
			UserID:        uuid.New(),
			AccountNumber: "987654321000",
			RoutingNumber: "021000021",
			Type:          bank.AccountSavings,
		})
		require.NoError(t, err)
		assert.Equal(t, "USD", account.Balance.Currency().String())
	})

	t.Run("rejects empty account number", func(t *testing.T) {
		_, err := svc.CreateAccount(context.Background(), banking.CreateAccountInput{
			UserID:        uuid.New(),
			RoutingNumber: "021000021",
			Type:          bank.AccountChecking,
		})
		require.ErrorIs(t, err, bank.ErrInvalidAccountNumber)
	})

	t.Run("rejects bad routing numbers", func(t *testing.T) {
		for _, routing := range []string{"", "12345678", "1234567890", "02100002a"} {
			_, err := svc.CreateAccount(context.Background(), banking.CreateAccountInput{
				UserID:        uuid.New(),
				AccountNumber: "123456789012",
				RoutingNumber: routing,
				Type:          bank.AccountChecking,
			})
			require.ErrorIs(t, err, bank.ErrInvalidRoutingNumber, "routing %q", routing)
		}
	})

	t.Run("rejects unknown account types", func(t *testing.T) {
		_, err := svc.CreateAccount(context.Background(), banking.CreateAccountInput{
			UserID:        uuid.New(),
			AccountNumber: "123456789012",
			RoutingNumber: "021000021",
			Type:          bank.AccountType("offshore"),
		})
		require.ErrorIs(t, err, bank.ErrUnknownAccountType)
	})
}

func TestRecordTransaction_AdjustsBalance(t *testing.T) {
	svc, _ := newService(t)
	account := openAccount(t, svc)
	ctx := context.Background()

	_, err := svc.RecordTransaction(ctx, banking.RecordTransactionInput{
		AccountID:   account.ID,
		Type:        bank.TxDeposit,
		Amount:      500.00,
		Currency:    "USD",
		Description: "payroll",
	})
	require.NoError(t, err)

	_, err = svc.RecordTransaction(ctx, banking.RecordTransactionInput{
		AccountID: account.ID,
		Type:      bank.TxWithdrawal,
		Amount:    120.50,
		Currency:  "USD",
	})
	require.NoError(t, err)

	_, err = svc.RecordTransaction(ctx, banking.RecordTransactionInput{
		AccountID: account.ID,
		Type:      bank.TxInterest,
		Amount:    1.25,
		Currency:  "USD",
	})
	require.NoError(t, err)

	_, err = svc.RecordTransaction(ctx, banking.RecordTransactionInput{
		AccountID: account.ID,
		Type:      bank.TxFee,
		Amount:    2.00,
		Currency:  "USD",
	})
	require.NoError(t, err)

	balance, err := svc.GetBalance(ctx, account.ID)
	require.NoError(t, err)
	// 500.00 - 120.50 + 1.25 - 2.00
	assert.Equal(t, int64(37875), balance.Amount())
}

func TestRecordTransaction_Validation(t *testing.T) {
	svc, accounts := newService(t)
	account := openAccount(t, svc)
	ctx := context.Background()

	t.Run("unknown account", func(t *testing.T) {
		_, err := svc.RecordTransaction(ctx, banking.RecordTransactionInput{
			AccountID: uuid.New(),
			Type:      bank.TxDeposit,
			Amount:    10,
			Currency:  "USD",
		})
		require.ErrorIs(t, err, bank.ErrAccountNotFound)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := svc.RecordTransaction(ctx, banking.RecordTransactionInput{
			AccountID: account.ID,
			Type:      bank.TxDeposit,
			Amount:    0,
			Currency:  "USD",
		})
		require.ErrorIs(t, err, bank.ErrAmountNotPositive)
	})

	t.Run("unknown transaction type", func(t *testing.T) {
		_, err := svc.RecordTransaction(ctx, banking.RecordTransactionInput{
			AccountID: account.ID,
			Type:      bank.TransactionType("chargeback"),
			Amount:    10,
			Currency:  "USD",
		})
		require.ErrorIs(t, err, bank.ErrUnknownTransactionType)
	})

	t.Run("currency differing from the account", func(t *testing.T) {
		// 1000 JPY minor units must never be credited as 1000 US cents.
		_, err := svc.RecordTransaction(ctx, banking.RecordTransactionInput{
			AccountID: account.ID,
			Type:      bank.TxDeposit,
			Amount:    1000,
			Currency:  "JPY",
		})
		require.ErrorIs(t, err, money.ErrCurrencyMismatch)

		balance, err := svc.GetBalance(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, balance.IsZero(), "balance is untouched")
	})

	t.Run("inactive account", func(t *testing.T) {
		account.IsActive = false
		require.NoError(t, accounts.Save(ctx, account))

		_, err := svc.RecordTransaction(ctx, banking.RecordTransactionInput{
			AccountID: account.ID,
			Type:      bank.TxDeposit,
			Amount:    10,
			Currency:  "USD",
		})
		require.ErrorIs(t, err, bank.ErrAccountInactive)
	})
}

func TestListTransactions_PagesNewestFirst(t *testing.T) {
	svc, _ := newService(t)
	account := openAccount(t, svc)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		tx, err := svc.RecordTransaction(ctx, banking.RecordTransactionInput{
			AccountID: account.ID,
			Type:      bank.TxDeposit,
			Amount:    float64(i + 1),
			Currency:  "USD",
		})
		require.NoError(t, err)
		ids = append(ids, tx.ID)
		time.Sleep(2 * time.Millisecond)
	}

	page, err := svc.ListTransactions(ctx, account.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID, "newest first")
	assert.Equal(t, ids[3], page[1].ID)

	rest, err := svc.ListTransactions(ctx, account.ID, 10, 2)
	require.NoError(t, err)
	require.Len(t, rest, 3)
	assert.Equal(t, ids[0], rest[2].ID)

	empty, err := svc.ListTransactions(ctx, account.ID, 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
