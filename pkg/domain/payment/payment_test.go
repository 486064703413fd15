package payment_test

import (
	"testing"
	"time"

	"github.com/amirasaad/payflow/pkg/domain/payment"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, amount float64) money.Money {
	t.Helper()
	m, err := money.New(amount, "USD")
	require.NoError(t, err)
	return m
}

func buildPending(t *testing.T) *payment.Payment {
	t.Helper()
	p, err := payment.New().
		WithUserID(uuid.New()).
		WithAmount(mustMoney(t, 150.0)).
		WithMethod(payment.MethodCreditCard).
		WithDescription("test payment").
		Build()
	require.NoError(t, err)
	return p
}

func TestBuilder(t *testing.T) {
	t.Run("starts pending with zero retries", func(t *testing.T) {
		p := buildPending(t)
		assert.Equal(t, payment.StatusPending, p.Status)
		assert.Zero(t, p.RetryCount)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Empty(t, p.TransactionID)
	})

	t.Run("requires a user", func(t *testing.T) {
		_, err := payment.New().
			WithAmount(mustMoney(t, 10)).
			WithMethod(payment.MethodCreditCard).
			Build()
		require.ErrorIs(t, err, payment.ErrUserRequired)
	})

	t.Run("requires a positive amount", func(t *testing.T) {
		zero, err := money.FromSmallestUnit(0, "USD")
		require.NoError(t, err)
		_, err = payment.New().
			WithUserID(uuid.New()).
			WithAmount(zero).
			WithMethod(payment.MethodCreditCard).
			Build()
		require.ErrorIs(t, err, payment.ErrAmountNotPositive)
	})

	t.Run("rejects unknown methods", func(t *testing.T) {
		_, err := payment.New().
			WithUserID(uuid.New()).
			WithAmount(mustMoney(t, 10)).
			WithMethod(payment.Method("wire")).
			Build()
		require.ErrorIs(t, err, payment.ErrUnknownMethod)
	})
}

func TestParseMethod(t *testing.T) {
	for _, valid := range []string{
		"credit_card", "debit_card", "bank_transfer", "digital_wallet", "cryptocurrency",
	} {
		m, err := payment.ParseMethod(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, m.String())
	}
	_, err := payment.ParseMethod("cash")
	require.ErrorIs(t, err, payment.ErrUnknownMethod)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to payment.Status
		allowed  bool
	}{
		{payment.StatusPending, payment.StatusProcessing, true},
		{payment.StatusPending, payment.StatusFailed, true},
		{payment.StatusPending, payment.StatusCancelled, true},
		{payment.StatusPending, payment.StatusCompleted, false},
		{payment.StatusProcessing, payment.StatusCompleted, true},
		{payment.StatusProcessing, payment.StatusFailed, true},
		{payment.StatusProcessing, payment.StatusCancelled, false},
		{payment.StatusCompleted, payment.StatusRefunded, true},
		{payment.StatusCompleted, payment.StatusFailed, false},
		{payment.StatusFailed, payment.StatusPending, false},
		{payment.StatusCancelled, payment.StatusProcessing, false},
		{payment.StatusRefunded, payment.StatusCompleted, false},
		// Same-status saves are always legal; retry attempts persist under
		// an unchanged processing status.
		{payment.StatusProcessing, payment.StatusProcessing, true},
		{payment.StatusFailed, payment.StatusFailed, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, payment.StatusFailed.IsTerminal())
	assert.True(t, payment.StatusCancelled.IsTerminal())
	assert.True(t, payment.StatusRefunded.IsTerminal())
	assert.False(t, payment.StatusPending.IsTerminal())
	assert.False(t, payment.StatusProcessing.IsTerminal())
	assert.False(t, payment.StatusCompleted.IsTerminal())
}

func TestLifecycle(t *testing.T) {
	t.Run("happy path to refunded", func(t *testing.T) {
		p := buildPending(t)
		require.NoError(t, p.MarkProcessing())

		fee := mustMoney(t, 4.35)
		now := time.Now().UTC()
		require.NoError(t, p.MarkCompleted("txn_abc", fee, now))
		assert.Equal(t, "txn_abc", p.TransactionID)
		assert.Equal(t, fee, p.ProcessingFee)
		require.NotNil(t, p.ProcessedAt)
		assert.Equal(t, now, *p.ProcessedAt)

		require.NoError(t, p.MarkRefunded())
		assert.Equal(t, payment.StatusRefunded, p.Status)
	})

	t.Run("processing requires pending", func(t *testing.T) {
		p := buildPending(t)
		require.NoError(t, p.MarkProcessing())
		require.ErrorIs(t, p.MarkProcessing(), payment.ErrNotPending)
	})

	t.Run("cancel only while pending", func(t *testing.T) {
		p := buildPending(t)
		require.NoError(t, p.MarkCancelled())
		assert.Equal(t, payment.StatusCancelled, p.Status)

		q := buildPending(t)
		require.NoError(t, q.MarkProcessing())
		require.ErrorIs(t, q.MarkCancelled(), payment.ErrNotCancellable)
	})

	t.Run("refund only when completed", func(t *testing.T) {
		p := buildPending(t)
		require.ErrorIs(t, p.MarkRefunded(), payment.ErrNotRefundable)
	})

	t.Run("failed records the reason", func(t *testing.T) {
		p := buildPending(t)
		require.NoError(t, p.MarkProcessing())
		require.NoError(t, p.MarkFailed("provider unavailable"))
		assert.Equal(t, payment.StatusFailed, p.Status)
		assert.Equal(t, "provider unavailable", p.FailureReason)
	})

	t.Run("failed is terminal", func(t *testing.T) {
		p := buildPending(t)
		require.NoError(t, p.MarkFailed("rejected"))
		require.Error(t, p.MarkProcessing())
		require.ErrorIs(t, p.MarkRefunded(), payment.ErrNotRefundable)
	})
}

func TestRegisterFailedAttempt(t *testing.T) {
	p := buildPending(t)
	require.NoError(t, p.MarkProcessing())

	first := time.Now().UTC()
	p.RegisterFailedAttempt(first)
	second := first.Add(2 * time.Second)
	p.RegisterFailedAttempt(second)

	assert.Equal(t, 2, p.RetryCount)
	require.NotNil(t, p.LastRetryAt)
	assert.Equal(t, second, *p.LastRetryAt)
	assert.Equal(t, payment.StatusProcessing, p.Status, "attempts do not change status")
}

func TestSetMetadata(t *testing.T) {
	p := buildPending(t)
	p.SetMetadata("refundAmount", 10.0)
	assert.Equal(t, 10.0, p.Metadata["refundAmount"])
}
