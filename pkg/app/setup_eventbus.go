package app

import (
	"context"

	"github.com/amirasaad/payflow/pkg/domain/events"
)

// setupEventBus registers the audit subscribers. Every lifecycle event is
// written to the structured log; handlers never influence the pipeline.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	logger := a.Deps.Logger.With("subscriber", "audit")

	bus.Register(events.PaymentSubmitted{}.Type(), func(ctx context.Context, e events.Event) error {
		ev, ok := e.(events.PaymentSubmitted)
		if !ok {
			return nil
		}
		logger.Info("audit: payment submitted",
			"paymentID", ev.PaymentID, "userID", ev.UserID,
			"amount", ev.Amount, "currency", ev.Currency, "method", ev.Method)
		return nil
	})

	bus.Register(events.PaymentRejected{}.Type(), func(ctx context.Context, e events.Event) error {
		ev, ok := e.(events.PaymentRejected)
		if !ok {
			return nil
		}
		logger.Warn("audit: payment rejected by risk screening",
			"paymentID", ev.PaymentID, "userID", ev.UserID,
			"riskScore", ev.RiskScore, "riskFactors", ev.RiskFactors)
		return nil
	})

	bus.Register(events.PaymentSettled{}.Type(), func(ctx context.Context, e events.Event) error {
		ev, ok := e.(events.PaymentSettled)
		if !ok {
			return nil
		}
		logger.Info("audit: payment settled",
			"paymentID", ev.PaymentID, "transactionID", ev.TransactionID,
			"processingFee", ev.ProcessingFee)
		return nil
	})

	bus.Register(events.PaymentFailed{}.Type(), func(ctx context.Context, e events.Event) error {
		ev, ok := e.(events.PaymentFailed)
		if !ok {
			return nil
		}
		logger.Error("audit: payment failed",
			"paymentID", ev.PaymentID, "reason", ev.Reason,
			"retryCount", ev.RetryCount)
		return nil
	})

	bus.Register(events.PaymentRefunded{}.Type(), func(ctx context.Context, e events.Event) error {
		ev, ok := e.(events.PaymentRefunded)
		if !ok {
			return nil
		}
		logger.Info("audit: payment refunded",
			"paymentID", ev.PaymentID,
			"refundTransactionID", ev.RefundTransactionID, "amount", ev.Amount)
		return nil
	})
}
