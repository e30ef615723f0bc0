package models

import (
	"time"

	"github.com/google/uuid"
)

type Token struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	MerchantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tokens_merchant_public_value"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"type:varchar(20);not null"`
	PublicValue string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_tokens_merchant_public_value"`
	Status      string    `gorm:"type:varchar(20);not null"`
	IssuedAt    time.Time `gorm:"not null"`
	RevokedAt   *time.Time
}
