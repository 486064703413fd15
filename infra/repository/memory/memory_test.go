package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/payflow/infra/repository/memory"
	"github.com/amirasaad/payflow/pkg/currency"
	"github.com/amirasaad/payflow/pkg/domain/bank"
	"github.com/amirasaad/payflow/pkg/domain/payment"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPayment(t *testing.T, userID uuid.UUID) *payment.Payment {
	t.Helper()
	m, err := money.New(100, currency.Code("USD"))
	require.NoError(t, err)
	p, err := payment.New().
		WithUserID(userID).
		WithAmount(m).
		WithMethod(payment.MethodCreditCard).
		Build()
	require.NoError(t, err)
	return p
}

func TestPaymentRepository_SaveGuardsTransitions(t *testing.T) {
	repo := memory.NewPaymentRepository()
	ctx := context.Background()
	p := buildPayment(t, uuid.New())
	require.NoError(t, repo.Create(ctx, p))

	t.Run("rejects illegal jumps", func(t *testing.T) {
		stale := *p
		stale.Status = payment.StatusCompleted // pending cannot complete directly
		require.ErrorIs(t, repo.Save(ctx, &stale), payment.ErrInvalidTransition)
	})

	t.Run("allows legal transitions", func(t *testing.T) {
		next := *p
		require.NoError(t, next.MarkProcessing())
		require.NoError(t, repo.Save(ctx, &next))

		got, err := repo.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusProcessing, got.Status)
	})

	t.Run("allows same-status saves", func(t *testing.T) {
		got, err := repo.Get(ctx, p.ID)
		require.NoError(t, err)
		got.RetryCount = 2
		require.NoError(t, repo.Save(ctx, got))
	})

	t.Run("unknown payment", func(t *testing.T) {
		other := buildPayment(t, uuid.New())
		require.ErrorIs(t, repo.Save(ctx, other), payment.ErrPaymentNotFound)
	})
}

func TestPaymentRepository_GetByTransactionID(t *testing.T) {
	repo := memory.NewPaymentRepository()
	ctx := context.Background()
	p := buildPayment(t, uuid.New())
	p.TransactionID = "txn_abc"
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByTransactionID(ctx, "txn_abc")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = repo.GetByTransactionID(ctx, "txn_missing")
	require.ErrorIs(t, err, payment.ErrPaymentNotFound)

	_, err = repo.GetByTransactionID(ctx, "")
	require.ErrorIs(t, err, payment.ErrPaymentNotFound, "empty ids never match")
}

func TestPaymentRepository_TransactionIDUnique(t *testing.T) {
	repo := memory.NewPaymentRepository()
	ctx := context.Background()

	first := buildPayment(t, uuid.New())
	first.TransactionID = "txn_dup"
	require.NoError(t, repo.Create(ctx, first))

	t.Run("create rejects a taken id", func(t *testing.T) {
		second := buildPayment(t, uuid.New())
		second.TransactionID = "txn_dup"
		require.ErrorIs(t, repo.Create(ctx, second), payment.ErrDuplicateTransactionID)
	})

	t.Run("save rejects a taken id", func(t *testing.T) {
		second := buildPayment(t, uuid.New())
		require.NoError(t, repo.Create(ctx, second))
		second.TransactionID = "txn_dup"
		require.ErrorIs(t, repo.Save(ctx, second), payment.ErrDuplicateTransactionID)
	})

	t.Run("empty ids never collide", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, buildPayment(t, uuid.New())))
		require.NoError(t, repo.Create(ctx, buildPayment(t, uuid.New())))
	})

	t.Run("a payment keeps its own id on save", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, first))
	})
}

func TestPaymentRepository_ListByUserNewestFirst(t *testing.T) {
	repo := memory.NewPaymentRepository()
	ctx := context.Background()
	userID := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		p := buildPayment(t, userID)
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
		time.Sleep(2 * time.Millisecond)
	}
	require.NoError(t, repo.Create(ctx, buildPayment(t, uuid.New())))

	list, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[0], list[2].ID)
}

func TestPaymentRepository_ReturnsCopies(t *testing.T) {
	repo := memory.NewPaymentRepository()
	ctx := context.Background()
	p := buildPayment(t, uuid.New())
	p.SetMetadata("channel", "web")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	got.Status = payment.StatusFailed
	got.Metadata["channel"] = "tampered"

	fresh, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, fresh.Status)
	assert.Equal(t, "web", fresh.Metadata["channel"])
}

func TestBankTransactionRepository_ListByAccountPaging(t *testing.T) {
	repo := memory.NewBankTransactionRepository()
	ctx := context.Background()
	accountID := uuid.New()

	for i := 0; i < 3; i++ {
		m, err := money.New(float64(i+1), currency.Code("USD"))
		require.NoError(t, err)
		tx, err := bank.NewTransaction(accountID, bank.TxDeposit, m, "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, tx))
		time.Sleep(2 * time.Millisecond)
	}

	page, err := repo.ListByAccount(ctx, accountID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].TransactionDate.After(page[1].TransactionDate))

	beyond, err := repo.ListByAccount(ctx, accountID, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, beyond)

	other, err := repo.ListByAccount(ctx, uuid.New(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}
