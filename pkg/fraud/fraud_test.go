package fraud_test

import (
	"testing"

	"github.com/amirasaad/payflow/pkg/domain/payment"
	"github.com/amirasaad/payflow/pkg/fraud"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(t *testing.T, amount float64) money.Money {
	t.Helper()
	m, err := money.New(amount, "USD")
	require.NoError(t, err)
	return m
}

func TestCheck_AmountFactors(t *testing.T) {
	checker := fraud.New(fraud.DefaultConfig())
	userID := uuid.New()

	t.Run("large amount alone is high risk", func(t *testing.T) {
		got := checker.Check(userID, usd(t, 15000), payment.MethodCreditCard, nil)
		assert.True(t, got.IsHighRisk)
		assert.InDelta(t, 0.6, got.RiskScore, 0.0001)
		assert.Equal(t, []string{fraud.FactorLargeAmount}, got.RiskFactors)
	})

	t.Run("small amount scores zero", func(t *testing.T) {
		got := checker.Check(userID, usd(t, 100), payment.MethodCreditCard, nil)
		assert.False(t, got.IsHighRisk)
		assert.Zero(t, got.RiskScore)
		assert.Empty(t, got.RiskFactors)
	})

	t.Run("ceiling is exclusive", func(t *testing.T) {
		got := checker.Check(userID, usd(t, 10000), payment.MethodCreditCard, nil)
		assert.False(t, got.IsHighRisk)
		assert.NotContains(t, got.RiskFactors, fraud.FactorLargeAmount)
		assert.Contains(t, got.RiskFactors, fraud.FactorMediumAmount)
	})

	t.Run("moderate band", func(t *testing.T) {
		got := checker.Check(userID, usd(t, 2000), payment.MethodCreditCard, nil)
		assert.Equal(t, []string{fraud.FactorModerateAmount}, got.RiskFactors)
		assert.False(t, got.IsHighRisk)
	})
}

func TestCheck_MethodAndCurrencyFactors(t *testing.T) {
	checker := fraud.New(fraud.DefaultConfig())
	userID := uuid.New()

	t.Run("cryptocurrency alone is high risk", func(t *testing.T) {
		got := checker.Check(userID, usd(t, 100), payment.MethodCryptocurrency, nil)
		assert.True(t, got.IsHighRisk)
		assert.InDelta(t, 0.6, got.RiskScore, 0.0001)
	})

	t.Run("digital wallet alone is not", func(t *testing.T) {
		got := checker.Check(userID, usd(t, 100), payment.MethodDigitalWallet, nil)
		assert.False(t, got.IsHighRisk)
		assert.InDelta(t, 0.15, got.RiskScore, 0.0001)
	})

	t.Run("unusual currency stacks with method", func(t *testing.T) {
		xyz, err := money.New(100, "XYZ")
		require.NoError(t, err)
		got := checker.Check(userID, xyz, payment.MethodCryptocurrency, nil)
		assert.True(t, got.IsHighRisk)
		// 1 - (1-0.6)(1-0.6)
		assert.InDelta(t, 0.84, got.RiskScore, 0.0001)
		assert.Contains(t, got.RiskFactors, fraud.FactorUnusualCurrency)
		assert.Contains(t, got.RiskFactors, fraud.FactorHighRiskPaymentMethod)
	})
}

func TestCheck_LocationFactors(t *testing.T) {
	checker := fraud.New(fraud.DefaultConfig())
	userID := uuid.New()

	t.Run("deny listed country plus vpn stays under threshold", func(t *testing.T) {
		got := checker.Check(userID, usd(t, 100), payment.MethodCreditCard, map[string]any{
			"location": map[string]any{"country": "XX", "vpnDetected": true},
		})
		// 1 - (1-0.4)(1-0.15) = 0.49
		assert.InDelta(t, 0.49, got.RiskScore, 0.0001)
		assert.False(t, got.IsHighRisk)
	})

	t.Run("third factor crosses the threshold", func(t *testing.T) {
		got := checker.Check(userID, usd(t, 100), payment.MethodDigitalWallet, map[string]any{
			"location": map[string]any{"country": "XX", "vpnDetected": true},
		})
		// 1 - (1-0.15)(1-0.4)(1-0.15) = 0.5665
		assert.InDelta(t, 0.5665, got.RiskScore, 0.0001)
		assert.True(t, got.IsHighRisk)
	})

	t.Run("malformed metadata contributes nothing", func(t *testing.T) {
		got := checker.Check(userID, usd(t, 100), payment.MethodCreditCard, map[string]any{
			"location": "not a map",
		})
		assert.Zero(t, got.RiskScore)
		assert.Empty(t, got.RiskFactors)
	})

	t.Run("unlisted country is clean", func(t *testing.T) {
		got := checker.Check(userID, usd(t, 100), payment.MethodCreditCard, map[string]any{
			"location": map[string]any{"country": "US", "vpnDetected": false},
		})
		assert.Empty(t, got.RiskFactors)
	})
}

func TestCheck_Deterministic(t *testing.T) {
	checker := fraud.New(fraud.DefaultConfig())
	userID := uuid.New()
	metadata := map[string]any{
		"location": map[string]any{"country": "YY", "vpnDetected": true},
	}

	first := checker.Check(userID, usd(t, 7500), payment.MethodDigitalWallet, metadata)
	for i := 0; i < 10; i++ {
		again := checker.Check(userID, usd(t, 7500), payment.MethodDigitalWallet, metadata)
		assert.Equal(t, first, again)
	}
}

func TestCheck_ScoreBounded(t *testing.T) {
	checker := fraud.New(fraud.DefaultConfig())
	xyz, err := money.New(50000, "XYZ")
	require.NoError(t, err)
	got := checker.Check(uuid.New(), xyz, payment.MethodCryptocurrency, map[string]any{
		"location": map[string]any{"country": "ZZ", "vpnDetected": true},
	})
	assert.True(t, got.IsHighRisk)
	assert.LessOrEqual(t, got.RiskScore, 1.0)
	assert.Len(t, got.RiskFactors, 5)
}
