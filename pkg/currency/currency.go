// Package currency maintains the registry of currencies the platform
// recognizes. Codes outside the registry are still structurally valid ISO 4217
// codes; they are simply unsupported, which downstream risk scoring treats as
// a signal rather than an input error.
package currency

import "strings"

const (
	// DefaultCurrency is the fallback currency code (USD).
	DefaultCurrency = Code("USD")
	// DefaultDecimals is the default number of decimal places for currencies.
	DefaultDecimals = 2
)

// Code is a 3-letter ISO 4217 currency code (e.g. "USD").
type Code string

// String returns the code as a plain string.
func (c Code) String() string { return string(c) }

// IsValidFormat reports whether the code is three uppercase ASCII letters.
func (c Code) IsValidFormat() bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}

// Meta holds currency-specific metadata.
type Meta struct {
	Decimals int
	Symbol   string
}

// Registry is an immutable-after-construction set of recognized currencies.
type Registry struct {
	currencies map[Code]Meta
}

// NewRegistry creates a registry seeded with the platform's default currencies.
func NewRegistry() *Registry {
	return &Registry{
		currencies: map[Code]Meta{
			"USD": {Decimals: 2, Symbol: "$"},
			"EUR": {Decimals: 2, Symbol: "€"},
			"GBP": {Decimals: 2, Symbol: "£"},
			"JPY": {Decimals: 0, Symbol: "¥"},
			"CAD": {Decimals: 2, Symbol: "C$"},
			"AUD": {Decimals: 2, Symbol: "A$"},
			"CHF": {Decimals: 2, Symbol: "CHF"},
			"CNY": {Decimals: 2, Symbol: "¥"},
			"INR": {Decimals: 2, Symbol: "₹"},
			"EGP": {Decimals: 2, Symbol: "£"},
			"KWD": {Decimals: 3, Symbol: "د.ك"},
		},
	}
}

// Register adds or updates a currency in the registry.
func (r *Registry) Register(code Code, meta Meta) {
	r.currencies[code] = meta
}

// IsSupported reports whether a currency code is registered.
func (r *Registry) IsSupported(code Code) bool {
	_, ok := r.currencies[Code(strings.ToUpper(string(code)))]
	return ok
}

// Get returns the metadata for a code, falling back to defaults for
// unregistered currencies.
func (r *Registry) Get(code Code) Meta {
	if m, ok := r.currencies[Code(strings.ToUpper(string(code)))]; ok {
		return m
	}
	return Meta{Decimals: DefaultDecimals, Symbol: string(code)}
}

// ListSupported returns all registered currency codes.
func (r *Registry) ListSupported() []Code {
	codes := make([]Code, 0, len(r.currencies))
	for c := range r.currencies {
		codes = append(codes, c)
	}
	return codes
}

var defaultRegistry = NewRegistry()

// IsSupported checks the default registry.
func IsSupported(code Code) bool { return defaultRegistry.IsSupported(code) }

// Decimals returns the decimal places for a code from the default registry.
func Decimals(code Code) int { return defaultRegistry.Get(code).Decimals }
