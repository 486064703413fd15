package payment

import "fmt"

// Status is the lifecycle state of a payment.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// transitions enumerates the legal edges of the payment state machine.
// Saving a record with the same status it already has is always allowed
// (retry attempts persist under an unchanged Processing status).
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusFailed, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {StatusRefunded},
	StatusFailed:     {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// String returns the status as a plain string.
func (s Status) String() string { return string(s) }

// IsTerminal reports whether the status has no outgoing transitions other
// than the completed→refunded edge.
func (s Status) IsTerminal() bool {
	return s == StatusFailed || s == StatusCancelled || s == StatusRefunded
}

// CanTransitionTo reports whether moving from s to next is a legal edge.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Method identifies how a payment is funded.
type Method string

const (
	MethodCreditCard     Method = "credit_card"
	MethodDebitCard      Method = "debit_card"
	MethodBankTransfer   Method = "bank_transfer"
	MethodDigitalWallet  Method = "digital_wallet"
	MethodCryptocurrency Method = "cryptocurrency"
)

// ParseMethod converts a wire string into a Method, rejecting unknown values
// so illegal methods are caught at construction time.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCreditCard, MethodDebitCard, MethodBankTransfer,
		MethodDigitalWallet, MethodCryptocurrency:
		return Method(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// String returns the method as a plain string.
func (m Method) String() string { return string(m) }
