package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RuleVersion struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MerchantID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_rule_versions_merchant_version"`
	Version         int             `gorm:"not null;uniqueIndex:idx_rule_versions_merchant_version"`
	PointsPerUnit   decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Rounding        string          `gorm:"type:varchar(10);not null"`
	PromoMultiplier decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	EffectiveFrom   time.Time       `gorm:"not null;index"`
	CreatedAt       time.Time
}
