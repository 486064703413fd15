// Package fraud scores payment requests against heuristic risk factors.
//
// Scoring is pure and deterministic: identical input always yields the same
// score and factor set. Factors combine multiplicatively on their complements,
// score = 1 − ∏(1 − weight), so stacking factors raises the score
// monotonically without ever exceeding 1.
package fraud

import (
	"math"

	"github.com/amirasaad/payflow/pkg/currency"
	"github.com/amirasaad/payflow/pkg/domain/payment"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/google/uuid"
)

// Factor tags reported in an assessment, ordered by evaluation.
const (
	FactorLargeAmount           = "large_amount"
	FactorMediumAmount          = "medium_amount"
	FactorModerateAmount        = "moderate_amount"
	FactorHighRiskPaymentMethod = "high_risk_payment_method"
	FactorMediumRiskMethod      = "medium_risk_payment_method"
	FactorUnusualCurrency       = "unusual_currency"
	FactorHighRiskCountry       = "high_risk_country"
	FactorVPNDetected           = "vpn_detected"
)

// HighRiskThreshold is the exclusive score bound above which a payment is
// rejected. Each standalone high-severity factor weighs enough to cross it
// on its own.
const HighRiskThreshold = 0.5

var factorWeights = map[string]float64{
	FactorLargeAmount:           0.6,
	FactorMediumAmount:          0.25,
	FactorModerateAmount:        0.1,
	FactorHighRiskPaymentMethod: 0.6,
	FactorMediumRiskMethod:      0.15,
	FactorUnusualCurrency:       0.6,
	FactorHighRiskCountry:       0.4,
	FactorVPNDetected:           0.15,
}

// Assessment is the synchronous result of risk screening. It is not persisted.
type Assessment struct {
	IsHighRisk  bool
	RiskScore   float64
	RiskFactors []string
}

// Config tunes the checker's thresholds.
type Config struct {
	// LargeAmountCeiling is the major-unit amount above which a payment is
	// flagged standalone high-risk. The bound is exclusive: a payment at
	// exactly the ceiling is not flagged.
	LargeAmountCeiling float64
	// HighRiskCountries is a deny list matched against metadata location.
	HighRiskCountries []string
	// Registry decides which currencies are recognized.
	Registry *currency.Registry
}

// DefaultConfig returns the reference thresholds.
func DefaultConfig() Config {
	return Config{
		LargeAmountCeiling: 10000,
		HighRiskCountries:  []string{"XX", "YY", "ZZ"},
		Registry:           currency.NewRegistry(),
	}
}

// Checker scores payments. It holds configuration only; Check has no side
// effects and is safe for concurrent use.
type Checker struct {
	cfg       Config
	countries map[string]struct{}
}

// New builds a Checker from cfg, filling zero values from DefaultConfig.
func New(cfg Config) *Checker {
	def := DefaultConfig()
	if cfg.LargeAmountCeiling == 0 {
		cfg.LargeAmountCeiling = def.LargeAmountCeiling
	}
	if cfg.HighRiskCountries == nil {
		cfg.HighRiskCountries = def.HighRiskCountries
	}
	if cfg.Registry == nil {
		cfg.Registry = def.Registry
	}
	countries := make(map[string]struct{}, len(cfg.HighRiskCountries))
	for _, c := range cfg.HighRiskCountries {
		countries[c] = struct{}{}
	}
	return &Checker{cfg: cfg, countries: countries}
}

// Check assesses a single payment request. Missing or partial metadata never
// fails the check; it simply contributes no additional factors.
func (c *Checker) Check(
	userID uuid.UUID,
	amount money.Money,
	method payment.Method,
	metadata map[string]any,
) Assessment {
	_ = userID // reserved for behavioral factors fed by a profile store

	var factors []string
	factors = c.amountFactors(amount, factors)
	factors = methodFactors(method, factors)
	factors = c.currencyFactors(amount.Currency(), factors)
	factors = c.locationFactors(metadata, factors)

	score := combine(factors)
	return Assessment{
		IsHighRisk:  score > HighRiskThreshold,
		RiskScore:   score,
		RiskFactors: factors,
	}
}

func (c *Checker) amountFactors(amount money.Money, factors []string) []string {
	major := amount.Float()
	switch {
	case major > c.cfg.LargeAmountCeiling:
		return append(factors, FactorLargeAmount)
	case major > c.cfg.LargeAmountCeiling/2:
		return append(factors, FactorMediumAmount)
	case major > c.cfg.LargeAmountCeiling/10:
		return append(factors, FactorModerateAmount)
	}
	return factors
}

func methodFactors(method payment.Method, factors []string) []string {
	switch method {
	case payment.MethodCryptocurrency:
		return append(factors, FactorHighRiskPaymentMethod)
	case payment.MethodDigitalWallet:
		return append(factors, FactorMediumRiskMethod)
	}
	return factors
}

func (c *Checker) currencyFactors(code currency.Code, factors []string) []string {
	if !c.cfg.Registry.IsSupported(code) {
		return append(factors, FactorUnusualCurrency)
	}
	return factors
}

func (c *Checker) locationFactors(metadata map[string]any, factors []string) []string {
	loc, ok := metadata["location"].(map[string]any)
	if !ok {
		return factors
	}
	if country, ok := loc["country"].(string); ok {
		if _, deny := c.countries[country]; deny {
			factors = append(factors, FactorHighRiskCountry)
		}
	}
	if vpn, ok := loc["vpnDetected"].(bool); ok && vpn {
		factors = append(factors, FactorVPNDetected)
	}
	return factors
}

func combine(factors []string) float64 {
	complement := 1.0
	for _, f := range factors {
		complement *= 1 - factorWeights[f]
	}
	score := 1 - complement
	return math.Min(math.Max(score, 0), 1)
}
