package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
)

// TokenRepository defines presentable-credential data operations
type TokenRepository interface {
	Create(ctx context.Context, token *entities.Token) error
	GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entities.Token, error)
	GetByPublicValue(ctx context.Context, merchantID uuid.UUID, publicValue string) (*entities.Token, error)
	ListByCustomer(ctx context.Context, merchantID, customerID uuid.UUID) ([]*entities.Token, error)
	Revoke(ctx context.Context, merchantID, id uuid.UUID) error
}
