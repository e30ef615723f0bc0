package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	MerchantID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	Action     string     `gorm:"type:varchar(100);not null;index"`
	TargetType string     `gorm:"type:varchar(50);not null"`
	TargetID   uuid.UUID  `gorm:"type:uuid;not null"`
	Metadata   string     `gorm:"type:text"`
	CreatedAt  time.Time
}
