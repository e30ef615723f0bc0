package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reward struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	MerchantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(255);not null"`
	PointsCost int64     `gorm:"not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

type Redemption struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	MerchantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RewardID      uuid.UUID `gorm:"type:uuid;not null"`
	LedgerEntryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	PointsCost    int64     `gorm:"not null"`
	Status        string    `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
