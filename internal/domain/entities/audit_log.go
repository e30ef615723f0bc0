package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AuditLog records one privileged or balance-affecting action. Audit rows are
// written in the same transaction as the mutation they describe.
type AuditLog struct {
	ID         uuid.UUID  `json:"id"`
	MerchantID uuid.UUID  `json:"merchantId"`
	ActorID    *uuid.UUID `json:"actorId,omitempty"`
	Action     string     `json:"action"`
	TargetType string     `json:"targetType"`
	TargetID   uuid.UUID  `json:"targetId"`
	Metadata   null.JSON  `json:"metadata,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
