package models

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntry rows are append-only. There is deliberately no UpdatedAt and no
// soft-delete column: nothing ever mutates a ledger row after creation.
type LedgerEntry struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	MerchantID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_merchant_idem_key;index:idx_ledger_merchant_customer"`
	CustomerID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_ledger_merchant_customer"`
	Type           string     `gorm:"type:varchar(20);not null"`
	PointsDelta    int64      `gorm:"not null"`
	Source         string     `gorm:"type:varchar(20);not null"`
	ExternalID     *string    `gorm:"type:varchar(255)"`
	RuleVersionID  *uuid.UUID `gorm:"type:uuid"`
	IdempotencyKey string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_ledger_merchant_idem_key"`
	CreatedAt      time.Time
}
