package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
)

// AuditLogRepository defines audit-log data operations
type AuditLogRepository interface {
	Create(ctx context.Context, log *entities.AuditLog) error
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*entities.AuditLog, error)
	CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int64, error)
}
