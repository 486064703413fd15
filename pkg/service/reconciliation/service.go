// Package reconciliation matches bank-reported transactions against internal
// payment records and appends the outcome as immutable reconciliation
// records. It never mutates payments or bank transactions.
package reconciliation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/payflow/pkg/config"
	"github.com/amirasaad/payflow/pkg/domain/bank"
	"github.com/amirasaad/payflow/pkg/domain/payment"
	"github.com/amirasaad/payflow/pkg/domain/reconciliation"
	"github.com/amirasaad/payflow/pkg/repository"
	"github.com/google/uuid"
)

// ErrNothingToReconcile is returned when neither the bank transaction nor the
// payment can be found, so there is no leg to record an outcome against.
var ErrNothingToReconcile = errors.New("neither bank transaction nor payment found")

const sweepPageSize = 100

// Service is the reconciliation engine.
type Service struct {
	records      repository.ReconciliationRepository
	payments     repository.PaymentRepository
	transactions repository.BankTransactionRepository
	logger       *slog.Logger
}

// NewService creates a Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		records:      deps.Reconciliations,
		payments:     deps.Payments,
		transactions: deps.BankTransactions,
		logger:       deps.Logger.With("service", "reconciliation"),
	}
}

// Reconcile matches one bank transaction against one payment and appends the
// outcome. Both legs present and agreeing on amount and currency yields a
// Matched record; amounts differing yields a Discrepancy record carrying the
// signed difference bank minus payment in the smallest unit; exactly one leg
// missing yields an Unmatched record. Both legs missing is an error and
// nothing is recorded.
func (s *Service) Reconcile(
	ctx context.Context,
	bankTxID, paymentID uuid.UUID,
	notes string,
) (*reconciliation.Record, error) {
	if bankTxID == uuid.Nil || paymentID == uuid.Nil {
		return nil, reconciliation.ErrMissingReference
	}

	tx, txErr := s.transactions.Get(ctx, bankTxID)
	if txErr != nil && !errors.Is(txErr, bank.ErrTransactionNotFound) {
		return nil, txErr
	}
	p, pErr := s.payments.Get(ctx, paymentID)
	if pErr != nil && !errors.Is(pErr, payment.ErrPaymentNotFound) {
		return nil, pErr
	}
	if tx == nil && p == nil {
		return nil, ErrNothingToReconcile
	}

	record := s.match(tx, p, bankTxID, paymentID, notes)
	if err := s.records.Append(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info("reconciliation recorded",
		"bankTransactionID", bankTxID, "paymentID", paymentID,
		"status", record.Status)
	return record, nil
}

// ReconcileAccount sweeps an account's bank transactions and reconciles each
// one that carries a settlement reference against the payment owning that
// reference. Transactions without a reference or without a matching payment
// produce Unmatched records. It returns the records appended, one per
// referenced transaction.
func (s *Service) ReconcileAccount(
	ctx context.Context,
	accountID uuid.UUID,
) ([]*reconciliation.Record, error) {
	if accountID == uuid.Nil {
		return nil, bank.ErrAccountNotFound
	}

	var out []*reconciliation.Record
	for offset := 0; ; offset += sweepPageSize {
		page, err := s.transactions.ListByAccount(ctx, accountID, sweepPageSize, offset)
		if err != nil {
			return out, err
		}
		for _, tx := range page {
			if tx.Reference == "" {
				continue
			}
			record, err := s.reconcileByReference(ctx, tx)
			if err != nil {
				return out, err
			}
			out = append(out, record)
		}
		if len(page) < sweepPageSize {
			break
		}
	}
	s.logger.Info("account sweep finished", "accountID", accountID, "records", len(out))
	return out, nil
}

func (s *Service) reconcileByReference(
	ctx context.Context,
	tx *bank.Transaction,
) (*reconciliation.Record, error) {
	p, err := s.payments.GetByTransactionID(ctx, tx.Reference)
	if err != nil && !errors.Is(err, payment.ErrPaymentNotFound) {
		return nil, err
	}
	var paymentID uuid.UUID
	if p != nil {
		paymentID = p.ID
	}
	record := s.match(tx, p, tx.ID, paymentID, "account sweep")
	if err := s.records.Append(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// match classifies one bank transaction / payment pair. At least one of tx
// and p must be non-nil.
func (s *Service) match(
	tx *bank.Transaction,
	p *payment.Payment,
	bankTxID, paymentID uuid.UUID,
	notes string,
) *reconciliation.Record {
	switch {
	case tx == nil:
		return reconciliation.NewRecord(
			bankTxID, paymentID, p.Amount,
			reconciliation.StatusUnmatched,
			joinNotes(notes, "bank transaction not found"),
		)
	case p == nil:
		return reconciliation.NewRecord(
			bankTxID, paymentID, tx.Amount,
			reconciliation.StatusUnmatched,
			joinNotes(notes, "payment not found"),
		)
	case !tx.Amount.SameCurrency(p.Amount):
		record := reconciliation.NewRecord(
			bankTxID, paymentID, tx.Amount,
			reconciliation.StatusDiscrepancy,
			joinNotes(notes, "currency mismatch: bank "+tx.Amount.Currency().String()+
				" vs payment "+p.Amount.Currency().String()),
		)
		return record.WithDiscrepancy(tx.Amount.Amount() - p.Amount.Amount())
	case tx.Amount.Amount() != p.Amount.Amount():
		record := reconciliation.NewRecord(
			bankTxID, paymentID, tx.Amount,
			reconciliation.StatusDiscrepancy,
			joinNotes(notes, "amount mismatch"),
		)
		return record.WithDiscrepancy(tx.Amount.Amount() - p.Amount.Amount())
	default:
		return reconciliation.NewRecord(
			bankTxID, paymentID, tx.Amount,
			reconciliation.StatusMatched,
			notes,
		)
	}
}

// History returns the reconciliation records appended for a payment.
func (s *Service) History(
	ctx context.Context,
	paymentID uuid.UUID,
) ([]*reconciliation.Record, error) {
	if paymentID == uuid.Nil {
		return nil, payment.ErrPaymentNotFound
	}
	return s.records.ListByPayment(ctx, paymentID)
}

func joinNotes(notes, detail string) string {
	if notes == "" {
		return detail
	}
	return notes + "; " + detail
}
