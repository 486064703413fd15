package payment

import "errors"

var (
	// ErrPaymentNotFound is returned when a payment id does not resolve.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrInvalidTransition is returned when a status change is not legal
	// under the payment state machine.
	ErrInvalidTransition = errors.New("invalid payment status transition")
	// ErrNotPending is returned when an operation requires a pending payment.
	ErrNotPending = errors.New("payment is not in pending status")
	// ErrNotCancellable is returned when cancelling a payment that already
	// left the pending state.
	ErrNotCancellable = errors.New("payment cannot be cancelled")
	// ErrNotRefundable is returned when refunding a payment that has not
	// completed.
	ErrNotRefundable = errors.New("only completed payments can be refunded")
	// ErrRefundExceedsAmount is returned when a refund exceeds the original
	// payment amount.
	ErrRefundExceedsAmount = errors.New("refund amount cannot exceed payment amount")
	// ErrFraudRejected is returned when a payment fails risk screening.
	ErrFraudRejected = errors.New("payment failed fraud check")
	// ErrRetriesExhausted is returned when settlement failed after the
	// maximum number of attempts.
	ErrRetriesExhausted = errors.New("maximum retry attempts exceeded")
	// ErrDuplicateTransactionID is returned when persisting a payment whose
	// provider transaction id is already recorded on another payment.
	ErrDuplicateTransactionID = errors.New("transaction id already recorded")
	// ErrUnknownMethod is returned for unrecognized payment methods.
	ErrUnknownMethod = errors.New("unknown payment method")
	// ErrUserRequired is returned when a payment is built without an owner.
	ErrUserRequired = errors.New("userID is required")
	// ErrAmountNotPositive is returned when a payment amount is not positive.
	ErrAmountNotPositive = errors.New("payment amount must be positive")
)
