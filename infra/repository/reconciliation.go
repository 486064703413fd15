package repository

import (
	"context"

	"github.com/amirasaad/payflow/pkg/currency"
	"github.com/amirasaad/payflow/pkg/domain/reconciliation"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/amirasaad/payflow/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reconciliationRepository struct {
	db *gorm.DB
}

// NewReconciliationRepository creates a Postgres-backed reconciliation
// repository. Records are append-only; there is no update path.
func NewReconciliationRepository(db *gorm.DB) repository.ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

func (r *reconciliationRepository) Append(ctx context.Context, rec *reconciliation.Record) error {
	model := &Reconciliation{
		Model: gorm.Model{
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.CreatedAt,
		},
		ID:                rec.ID,
		BankTransactionID: rec.BankTransactionID,
		PaymentID:         rec.PaymentID,
		Amount:            rec.Amount.Amount(),
		Currency:          rec.Amount.Currency().String(),
		Status:            string(rec.Status),
		Discrepancy:       rec.Discrepancy,
		Notes:             rec.Notes,
		ReconciledAt:      rec.ReconciledAt,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *reconciliationRepository) ListByPayment(
	ctx context.Context,
	paymentID uuid.UUID,
) ([]*reconciliation.Record, error) {
	var models []*Reconciliation
	result := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at desc").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	records := make([]*reconciliation.Record, 0, len(models))
	for _, m := range models {
		amount, err := money.FromSmallestUnit(m.Amount, currency.Code(m.Currency))
		if err != nil {
			return nil, err
		}
		records = append(records, &reconciliation.Record{
			ID:                m.ID,
			BankTransactionID: m.BankTransactionID,
			PaymentID:         m.PaymentID,
			Amount:            amount,
			Status:            reconciliation.Status(m.Status),
			Discrepancy:       m.Discrepancy,
			Notes:             m.Notes,
			ReconciledAt:      m.ReconciledAt,
			CreatedAt:         m.CreatedAt,
		})
	}
	return records, nil
}
