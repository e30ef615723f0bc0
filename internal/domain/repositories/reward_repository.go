package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
)

// RewardRepository defines reward data operations
type RewardRepository interface {
	Create(ctx context.Context, reward *entities.Reward) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Reward, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, activeOnly bool) ([]*entities.Reward, error)
	Deactivate(ctx context.Context, merchantID, id uuid.UUID) error
}

// RedemptionRepository defines redemption data operations
type RedemptionRepository interface {
	Create(ctx context.Context, redemption *entities.Redemption) error
	GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entities.Redemption, error)
	GetByLedgerEntryID(ctx context.Context, merchantID, entryID uuid.UUID) (*entities.Redemption, error)
	UpdateStatus(ctx context.Context, merchantID, id uuid.UUID, status entities.RedemptionStatus) error
	ListByCustomer(ctx context.Context, merchantID, customerID uuid.UUID, limit int) ([]*entities.Redemption, error)
}
