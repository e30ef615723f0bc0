package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Reward is a merchant-defined redeemable item
type Reward struct {
	ID         uuid.UUID `json:"id"`
	MerchantID uuid.UUID `json:"merchantId"`
	Name       string    `json:"name"`
	PointsCost int64     `json:"pointsCost"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	DeletedAt  null.Time `json:"-"`
}

// RewardCreateInput represents input for creating a reward
type RewardCreateInput struct {
	Name       string `json:"name" binding:"required,min=1,max=255"`
	PointsCost int64  `json:"pointsCost" binding:"required,gt=0"`
}

// RedemptionStatus represents the state of a granted redemption
type RedemptionStatus string

const (
	RedemptionStatusApproved RedemptionStatus = "approved"
	RedemptionStatusReversed RedemptionStatus = "reversed"
)

// Redemption records a reward having been granted to a customer. It is created
// in the same transaction as its paired redeem ledger entry; the two exist
// together or not at all.
type Redemption struct {
	ID            uuid.UUID        `json:"id"`
	MerchantID    uuid.UUID        `json:"merchantId"`
	CustomerID    uuid.UUID        `json:"customerId"`
	RewardID      uuid.UUID        `json:"rewardId"`
	LedgerEntryID uuid.UUID        `json:"ledgerEntryId"`
	PointsCost    int64            `json:"pointsCost"`
	Status        RedemptionStatus `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}
