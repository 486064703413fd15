package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment represents a payment record in the database. Amounts are stored in
// the smallest currency unit; metadata is serialized JSON.
type Payment struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID        uuid.UUID `gorm:"type:uuid;index"`
	Amount        int64
	Currency      string `gorm:"type:varchar(3);not null"`
	Status        string `gorm:"type:varchar(16);not null;index"`
	Method        string `gorm:"type:varchar(32);not null"`
	Description   string
	TransactionID *string `gorm:"uniqueIndex"`
	ExternalID    string
	ProcessingFee int64
	ProcessedAt   *time.Time
	FailureReason string
	RetryCount    int
	LastRetryAt   *time.Time
	Metadata      string `gorm:"type:jsonb"`
}

// BankAccount represents a bank account record in the database.
type BankAccount struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID        uuid.UUID `gorm:"type:uuid;index"`
	AccountNumber string    `gorm:"not null"`
	RoutingNumber string    `gorm:"type:varchar(9);not null"`
	AccountType   string    `gorm:"type:varchar(16);not null"`
	Balance       int64
	Currency      string `gorm:"type:varchar(3);not null;default:'USD'"`
	IsActive      bool
}

// BankTransaction represents a bank-reported transaction in the database.
type BankTransaction struct {
	gorm.Model
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID       uuid.UUID `gorm:"type:uuid;index"`
	Type            string    `gorm:"type:varchar(16);not null"`
	Amount          int64
	Currency        string `gorm:"type:varchar(3);not null"`
	Description     string
	Reference       string
	TransactionDate time.Time `gorm:"index"`
	ProcessedAt     time.Time
}

// Reconciliation represents an append-only reconciliation record in the
// database.
type Reconciliation struct {
	gorm.Model
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	BankTransactionID uuid.UUID `gorm:"type:uuid;index"`
	PaymentID         uuid.UUID `gorm:"type:uuid;index"`
	Amount            int64
	Currency          string `gorm:"type:varchar(3);not null"`
	Status            string `gorm:"type:varchar(16);not null"`
	Discrepancy       *int64
	Notes             string
	ReconciledAt      time.Time
}
