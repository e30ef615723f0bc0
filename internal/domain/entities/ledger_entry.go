package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// EntryType represents the kind of balance change a ledger entry records
type EntryType string

const (
	EntryTypeEarn     EntryType = "earn"
	EntryTypeRedeem   EntryType = "redeem"
	EntryTypeAdjust   EntryType = "adjust"
	EntryTypeReversal EntryType = "reversal"
	EntryTypeExpire   EntryType = "expire"
)

// EntrySource represents where an operation originated
type EntrySource string

const (
	EntrySourceTerminal EntrySource = "terminal"
	EntrySourcePOS      EntrySource = "pos"
	EntrySourceAdmin    EntrySource = "admin"
)

// LedgerEntry is the atomic, immutable unit of balance change. Entries are
// never updated or deleted after creation; corrections are expressed as new
// reversal or adjust entries. (merchant, idempotency key) is unique, which is
// the exactly-once contract for the write path.
type LedgerEntry struct {
	ID             uuid.UUID   `json:"id"`
	MerchantID     uuid.UUID   `json:"merchantId"`
	CustomerID     uuid.UUID   `json:"customerId"`
	Type           EntryType   `json:"type"`
	PointsDelta    int64       `json:"pointsDelta"`
	Source         EntrySource `json:"source"`
	ExternalID     null.String `json:"externalId,omitempty"`
	RuleVersionID  *uuid.UUID  `json:"ruleVersionId,omitempty"`
	IdempotencyKey string      `json:"idempotencyKey"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// AppendResult is the tagged outcome of a ledger append. Replayed reports
// whether the entry already existed for the same idempotency key, so callers
// cannot forget to handle the replay path.
type AppendResult struct {
	Entry    *LedgerEntry
	Replayed bool
}
