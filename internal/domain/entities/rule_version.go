package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoundingMode represents how fractional points are rounded
type RoundingMode string

const (
	RoundingFloor   RoundingMode = "floor"
	RoundingNearest RoundingMode = "nearest"
)

// RuleVersion is an immutable, versioned snapshot of a merchant's
// points-computation policy. Versions start at 1 and only ever grow; a policy
// change always creates version N+1, existing versions are never mutated.
// The active version at time T is the highest version effective at or before T.
type RuleVersion struct {
	ID              uuid.UUID       `json:"id"`
	MerchantID      uuid.UUID       `json:"merchantId"`
	Version         int             `json:"version"`
	PointsPerUnit   decimal.Decimal `json:"pointsPerUnit"`
	Rounding        RoundingMode    `json:"rounding"`
	PromoMultiplier decimal.Decimal `json:"promoMultiplier"`
	EffectiveFrom   time.Time       `json:"effectiveFrom"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// RuleVersionCreateInput represents input for appending a new rule version
type RuleVersionCreateInput struct {
	PointsPerUnit   decimal.Decimal `json:"pointsPerUnit" binding:"required"`
	Rounding        RoundingMode    `json:"rounding" binding:"required"`
	PromoMultiplier decimal.Decimal `json:"promoMultiplier"`
	EffectiveFrom   time.Time       `json:"effectiveFrom"`
}
