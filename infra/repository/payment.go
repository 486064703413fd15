package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/amirasaad/payflow/pkg/currency"
	"github.com/amirasaad/payflow/pkg/domain/payment"
	"github.com/amirasaad/payflow/pkg/money"
	"github.com/amirasaad/payflow/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a Postgres-backed payment repository.
func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func toPaymentModel(p *payment.Payment) (*Payment, error) {
	metadata := ""
	if p.Metadata != nil {
		raw, err := json.Marshal(p.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = string(raw)
	}
	var transactionID *string
	if p.TransactionID != "" {
		transactionID = &p.TransactionID
	}
	return &Payment{
		Model: gorm.Model{
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		ID:            p.ID,
		UserID:        p.UserID,
		Amount:        p.Amount.Amount(),
		Currency:      p.Amount.Currency().String(),
		Status:        p.Status.String(),
		Method:        p.Method.String(),
		Description:   p.Description,
		TransactionID: transactionID,
		ExternalID:    p.ExternalID,
		ProcessingFee: p.ProcessingFee.Amount(),
		ProcessedAt:   p.ProcessedAt,
		FailureReason: p.FailureReason,
		RetryCount:    p.RetryCount,
		LastRetryAt:   p.LastRetryAt,
		Metadata:      metadata,
	}, nil
}

func fromPaymentModel(m *Payment) (*payment.Payment, error) {
	amount, err := money.FromSmallestUnit(m.Amount, currency.Code(m.Currency))
	if err != nil {
		return nil, err
	}
	fee, err := money.FromSmallestUnit(m.ProcessingFee, currency.Code(m.Currency))
	if err != nil {
		return nil, err
	}
	var metadata map[string]any
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			return nil, err
		}
	}
	transactionID := ""
	if m.TransactionID != nil {
		transactionID = *m.TransactionID
	}
	return &payment.Payment{
		ID:            m.ID,
		UserID:        m.UserID,
		Amount:        amount,
		Status:        payment.Status(m.Status),
		Method:        payment.Method(m.Method),
		Description:   m.Description,
		TransactionID: transactionID,
		ExternalID:    m.ExternalID,
		ProcessingFee: fee,
		ProcessedAt:   m.ProcessedAt,
		FailureReason: m.FailureReason,
		RetryCount:    m.RetryCount,
		LastRetryAt:   m.LastRetryAt,
		Metadata:      metadata,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model, err := toPaymentModel(p)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *paymentRepository) Get(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var m Payment
	result := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, result.Error
	}
	return fromPaymentModel(&m)
}

func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	if transactionID == "" {
		return nil, payment.ErrPaymentNotFound
	}
	var m Payment
	result := r.db.WithContext(ctx).First(&m, "transaction_id = ?", transactionID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, result.Error
	}
	return fromPaymentModel(&m)
}

// Save persists a record inside a transaction, re-reading the stored status
// first so an illegal transition is rejected rather than applied over a
// stale copy.
func (r *paymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored Payment
		result := tx.First(&stored, "id = ?", p.ID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return payment.ErrPaymentNotFound
			}
			return result.Error
		}
		if !payment.Status(stored.Status).CanTransitionTo(p.Status) {
			return payment.ErrInvalidTransition
		}
		model, err := toPaymentModel(p)
		if err != nil {
			return err
		}
		return tx.Save(model).Error
	})
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*payment.Payment, error) {
	var models []*Payment
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	payments := make([]*payment.Payment, 0, len(models))
	for _, m := range models {
		p, err := fromPaymentModel(m)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}
