// Package provider defines the settlement provider contract the payment
// workers call to move funds on a banking rail. Implementations live under
// infra/provider.
package provider

import (
	"context"
	"errors"

	"github.com/amirasaad/payflow/pkg/domain/payment"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/google/uuid"
)

// ErrProviderUnavailable wraps transient provider failures. Errors of this
// class drive the retry loop; they are recoverable until the retry budget is
// exhausted.
var ErrProviderUnavailable = errors.New("settlement provider unavailable")

// SettleRequest asks the provider to settle one payment.
type SettleRequest struct {
	PaymentID uuid.UUID
	UserID    uuid.UUID
	Amount    money.Money
	Method    payment.Method
}

// SettleResult reports a successful settlement.
type SettleResult struct {
	// TransactionID is the provider-assigned id, unique per settlement.
	TransactionID string
	// ProcessingFee is the provider's cut, in the payment's currency.
	ProcessingFee money.Money
}

// RefundRequest asks the provider to return funds for a settled payment.
type RefundRequest struct {
	PaymentID     uuid.UUID
	TransactionID string
	Amount        money.Money
}

// RefundResult reports a successful refund.
type RefundResult struct {
	RefundTransactionID string
}

// Settlement is the banking-rail collaborator contract. Calls may block on
// network I/O; implementations must honor ctx cancellation and deadlines.
type Settlement interface {
	Settle(ctx context.Context, req SettleRequest) (*SettleResult, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
}
