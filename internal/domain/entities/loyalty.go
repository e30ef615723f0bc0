package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EarnInput represents an earn request from a terminal or POS
type EarnInput struct {
	CustomerID     uuid.UUID       `json:"customerId" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	IdempotencyKey string          `json:"idempotencyKey" binding:"required"`
	Source         EntrySource     `json:"source"`
	ExternalID     string          `json:"externalId,omitempty"`
}

// EarnResult is the outcome of an earn operation
type EarnResult struct {
	EntryID     uuid.UUID `json:"entryId"`
	PointsDelta int64     `json:"pointsDelta"`
	Balance     int64     `json:"balance"`
	Idempotent  bool      `json:"idempotent"`
}

// AdjustInput represents an owner-only manual balance correction
type AdjustInput struct {
	CustomerID     uuid.UUID `json:"customerId" binding:"required"`
	PointsDelta    int64     `json:"pointsDelta" binding:"required"`
	IdempotencyKey string    `json:"idempotencyKey" binding:"required"`
	Reason         string    `json:"reason" binding:"required"`
}

// AdjustResult is the outcome of an adjust operation
type AdjustResult struct {
	EntryID     uuid.UUID `json:"entryId"`
	PointsDelta int64     `json:"pointsDelta"`
	Balance     int64     `json:"balance"`
	Idempotent  bool      `json:"idempotent"`
}

// RedeemInput represents a redemption request
type RedeemInput struct {
	CustomerID     uuid.UUID `json:"customerId" binding:"required"`
	RewardID       uuid.UUID `json:"rewardId" binding:"required"`
	IdempotencyKey string    `json:"idempotencyKey" binding:"required"`
}

// RedeemResult is the outcome of a redeem operation
type RedeemResult struct {
	RedemptionID uuid.UUID `json:"redemptionId"`
	EntryID      uuid.UUID `json:"entryId"`
	Balance      int64     `json:"balance"`
	Idempotent   bool      `json:"idempotent"`
}
