package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
)

// RuleVersionRepository defines rule-version data operations. Rule versions
// are append-only: there is no update or delete.
type RuleVersionRepository interface {
	Create(ctx context.Context, rule *entities.RuleVersion) error
	// GetActive returns the highest version whose effective-from timestamp is
	// at or before asOf.
	GetActive(ctx context.Context, merchantID uuid.UUID, asOf time.Time) (*entities.RuleVersion, error)
	MaxVersion(ctx context.Context, merchantID uuid.UUID) (int, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entities.RuleVersion, error)
}
