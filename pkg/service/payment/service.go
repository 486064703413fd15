// Package payment orchestrates the asynchronous payment pipeline: persist
// the intent, screen it for fraud risk, dispatch settlement through the work
// queue, and drive the record's lifecycle state machine as attempts succeed,
// fail, and retry.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/payflow/pkg/config"
	"github.com/amirasaad/payflow/pkg/currency"
	"github.com/amirasaad/payflow/pkg/domain/events"
	paymentdomain "github.com/amirasaad/payflow/pkg/domain/payment"
	"github.com/amirasaad/payflow/pkg/eventbus"
	"github.com/amirasaad/payflow/pkg/fraud"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/amirasaad/payflow/pkg/provider"
	"github.com/amirasaad/payflow/pkg/queue"
	"github.com/amirasaad/payflow/pkg/repository"
	"github.com/google/uuid"
)

const fraudFailureReason = "Transaction flagged as high risk"

// errLeaseHeld signals that another worker currently holds the payment's
// processing claim.
var errLeaseHeld = errors.New("payment is being processed")

// SubmitInput carries a payment submission from the boundary.
type SubmitInput struct {
	UserID      uuid.UUID
	Amount      float64
	Currency    string
	Method      paymentdomain.Method
	Description string
	ExternalID  string
	Metadata    map[string]any
}

// Service drives payment records through their lifecycle. It is the only
// component that mutates a payment; workers do so under a per-id lease.
type Service struct {
	payments        repository.PaymentRepository
	provider        provider.Settlement
	queue           queue.Queue
	fraud           *fraud.Checker
	bus             eventbus.Bus
	logger          *slog.Logger
	leases          *leaseRegistry
	maxRetries      int
	retryBackoff    time.Duration
	providerTimeout time.Duration
}

// NewService creates a Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	cfg := deps.Config.Processor
	return &Service{
		payments:        deps.Payments,
		provider:        deps.Provider,
		queue:           deps.Queue,
		fraud:           deps.Fraud,
		bus:             deps.EventBus,
		logger:          deps.Logger.With("service", "payment"),
		leases:          newLeaseRegistry(cfg.LeaseTTL),
		maxRetries:      cfg.MaxRetries,
		retryBackoff:    cfg.RetryBackoff,
		providerTimeout: cfg.ProviderTimeout,
	}
}

// Submit validates and persists a new payment intent, then requests
// processing. A fraud rejection is reported to the caller alongside the
// failed record; any other submission returns the record in the state the
// synchronous part of the pipeline left it in.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*paymentdomain.Payment, error) {
	amount, err := money.New(input.Amount, currency.Code(input.Currency))
	if err != nil {
		return nil, err
	}
	p, err := paymentdomain.New().
		WithUserID(input.UserID).
		WithAmount(amount).
		WithMethod(input.Method).
		WithDescription(input.Description).
		WithExternalID(input.ExternalID).
		WithMetadata(input.Metadata).
		Build()
	if err != nil {
		return nil, err
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	s.bus.Emit(ctx, events.PaymentSubmitted{ //nolint:errcheck
		PaymentID: p.ID,
		UserID:    p.UserID,
		Amount:    p.Amount.Float(),
		Currency:  p.Amount.Currency().String(),
		Method:    p.Method.String(),
	})
	s.logger.Info("payment submitted",
		"paymentID", p.ID, "userID", p.UserID, "amount", p.Amount.String())

	if err := s.Process(ctx, p.ID); err != nil {
		fresh, getErr := s.payments.Get(ctx, p.ID)
		if getErr == nil {
			p = fresh
		}
		return p, err
	}
	return s.payments.Get(ctx, p.ID)
}

// Process runs one step of the payment pipeline for the given id. It is the
// queue handler and is idempotent: a record already in a terminal state is a
// successful no-op, so at-least-once redelivery is safe.
func (s *Service) Process(ctx context.Context, paymentID uuid.UUID) error {
	if paymentID == uuid.Nil {
		return paymentdomain.ErrPaymentNotFound
	}
	if !s.leases.Acquire(paymentID) {
		// Another worker holds this payment. Ask for redelivery rather than
		// completing the job, so the queue follows up once the claim clears.
		s.logger.Info("payment lease busy, requesting redelivery", "paymentID", paymentID)
		return queue.RetryIn(errLeaseHeld, 100*time.Millisecond)
	}
	defer s.leases.Release(paymentID)

	p, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		return err
	}

	switch p.Status {
	case paymentdomain.StatusPending:
		return s.screen(ctx, p)
	case paymentdomain.StatusProcessing:
		return s.settle(ctx, p)
	default:
		// Completed, cancelled, failed or refunded: idempotent replay.
		return nil
	}
}

// screen runs the fraud gate on a pending payment. Processing is entered only
// here, immediately after a passing check.
func (s *Service) screen(ctx context.Context, p *paymentdomain.Payment) error {
	assessment := s.fraud.Check(p.UserID, p.Amount, p.Method, p.Metadata)
	if assessment.IsHighRisk {
		if err := p.MarkFailed(fraudFailureReason); err != nil {
			return err
		}
		if err := s.payments.Save(ctx, p); err != nil {
			return err
		}
		s.bus.Emit(ctx, events.PaymentRejected{ //nolint:errcheck
			PaymentID:   p.ID,
			UserID:      p.UserID,
			RiskScore:   assessment.RiskScore,
			RiskFactors: assessment.RiskFactors,
		})
		s.logger.Warn("payment failed fraud screening",
			"paymentID", p.ID, "riskScore", assessment.RiskScore,
			"riskFactors", assessment.RiskFactors)
		return fmt.Errorf("%w: score %.2f", paymentdomain.ErrFraudRejected, assessment.RiskScore)
	}

	if err := p.MarkProcessing(); err != nil {
		return err
	}
	if err := s.payments.Save(ctx, p); err != nil {
		return err
	}
	return s.queue.Enqueue(ctx, p.ID)
}

// settle performs one settlement attempt against the provider. A failure
// below the retry bound leaves the record processing and asks the queue for a
// delayed redelivery; at the bound it is terminal.
func (s *Service) settle(ctx context.Context, p *paymentdomain.Payment) error {
	settleCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	result, err := s.provider.Settle(settleCtx, provider.SettleRequest{
		PaymentID: p.ID,
		UserID:    p.UserID,
		Amount:    p.Amount,
		Method:    p.Method,
	})
	if err != nil {
		return s.handleSettleFailure(ctx, p, err)
	}

	now := time.Now().UTC()
	if err := p.MarkCompleted(result.TransactionID, result.ProcessingFee, now); err != nil {
		return err
	}
	if err := s.payments.Save(ctx, p); err != nil {
		return err
	}
	s.bus.Emit(ctx, events.PaymentSettled{ //nolint:errcheck
		PaymentID:     p.ID,
		TransactionID: p.TransactionID,
		ProcessingFee: p.ProcessingFee.Amount(),
	})
	s.logger.Info("payment settled",
		"paymentID", p.ID, "transactionID", p.TransactionID,
		"processingFee", p.ProcessingFee.String())
	return nil
}

func (s *Service) handleSettleFailure(ctx context.Context, p *paymentdomain.Payment, cause error) error {
	now := time.Now().UTC()
	p.RegisterFailedAttempt(now)

	if p.RetryCount >= s.maxRetries {
		if err := p.MarkFailed(cause.Error()); err != nil {
			return err
		}
		if err := s.payments.Save(ctx, p); err != nil {
			return err
		}
		s.bus.Emit(ctx, events.PaymentFailed{ //nolint:errcheck
			PaymentID:  p.ID,
			Reason:     p.FailureReason,
			RetryCount: p.RetryCount,
		})
		s.logger.Error("payment failed, retries exhausted",
			"paymentID", p.ID, "retryCount", p.RetryCount, "error", cause)
		return fmt.Errorf("%w: %s", paymentdomain.ErrRetriesExhausted, cause.Error())
	}

	// Record stays processing; the attempt counter is the only change.
	if err := s.payments.Save(ctx, p); err != nil {
		return err
	}
	delay := s.backoff(p.RetryCount)
	s.logger.Warn("settlement attempt failed, retrying",
		"paymentID", p.ID, "retryCount", p.RetryCount, "delay", delay, "error", cause)
	return queue.RetryIn(cause, delay)
}

func (s *Service) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return s.retryBackoff << (attempt - 1)
}

// Get returns the payment record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*paymentdomain.Payment, error) {
	if id == uuid.Nil {
		return nil, paymentdomain.ErrPaymentNotFound
	}
	return s.payments.Get(ctx, id)
}

// Status returns only the payment's lifecycle state.
func (s *Service) Status(ctx context.Context, id uuid.UUID) (paymentdomain.Status, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Status, nil
}

// ListByUser returns the user's payments, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*paymentdomain.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

// Cancel cancels a payment. Cancellation is effective only while pending;
// once dispatched, callers must wait for a terminal state and refund instead.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*paymentdomain.Payment, error) {
	if id == uuid.Nil {
		return nil, paymentdomain.ErrPaymentNotFound
	}
	if !s.leases.Acquire(id) {
		return nil, paymentdomain.ErrNotCancellable
	}
	defer s.leases.Release(id)

	p, err := s.payments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.MarkCancelled(); err != nil {
		return nil, err
	}
	if err := s.payments.Save(ctx, p); err != nil {
		if errors.Is(err, paymentdomain.ErrInvalidTransition) {
			return nil, paymentdomain.ErrNotCancellable
		}
		return nil, err
	}
	s.logger.Info("payment cancelled", "paymentID", p.ID)
	return p, nil
}

// Refund refunds a completed payment. A nil amount refunds the full payment;
// a partial amount must not exceed the original. Refunds move money, so they
// run under the same per-payment lease as the workers: a concurrent claim on
// the id means someone else is mutating the record, and the status is only
// read once the claim is ours.
func (s *Service) Refund(ctx context.Context, id uuid.UUID, amount *float64) (*paymentdomain.Payment, error) {
	if id == uuid.Nil {
		return nil, paymentdomain.ErrPaymentNotFound
	}
	if !s.leases.Acquire(id) {
		return nil, paymentdomain.ErrNotRefundable
	}
	defer s.leases.Release(id)

	p, err := s.payments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != paymentdomain.StatusCompleted {
		return nil, paymentdomain.ErrNotRefundable
	}

	refund := p.Amount
	if amount != nil {
		refund, err = money.New(*amount, p.Amount.Currency())
		if err != nil {
			return nil, err
		}
		exceeds, err := refund.GreaterThan(p.Amount)
		if err != nil {
			return nil, err
		}
		if exceeds {
			return nil, paymentdomain.ErrRefundExceedsAmount
		}
	}

	refundCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()
	result, err := s.provider.Refund(refundCtx, provider.RefundRequest{
		PaymentID:     p.ID,
		TransactionID: p.TransactionID,
		Amount:        refund,
	})
	if err != nil {
		return nil, err
	}

	if err := p.MarkRefunded(); err != nil {
		return nil, err
	}
	p.SetMetadata("refundAmount", refund.Float())
	p.SetMetadata("refundTransactionId", result.RefundTransactionID)
	p.SetMetadata("refundedAt", time.Now().UTC().Format(time.RFC3339))
	if err := s.payments.Save(ctx, p); err != nil {
		return nil, err
	}
	s.bus.Emit(ctx, events.PaymentRefunded{ //nolint:errcheck
		PaymentID:           p.ID,
		RefundTransactionID: result.RefundTransactionID,
		Amount:              refund.Float(),
	})
	s.logger.Info("payment refunded",
		"paymentID", p.ID, "refundTransactionID", result.RefundTransactionID)
	return p, nil
}

// QueueStats reports the work queue counters.
func (s *Service) QueueStats() queue.Stats {
	return s.queue.Stats()
}

// RetryFailedJobs re-enqueues every parked failed job and returns how many
// were moved. Administrative operation; payment state is not touched, so jobs
// for terminally failed payments complete as no-ops.
func (s *Service) RetryFailedJobs() int {
	moved := s.queue.RetryFailed()
	if moved > 0 {
		s.logger.Info("failed jobs re-enqueued", "count", moved)
	}
	return moved
}
