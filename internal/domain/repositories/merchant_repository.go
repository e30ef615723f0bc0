package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
)

// MerchantRepository defines merchant data operations
type MerchantRepository interface {
	Create(ctx context.Context, merchant *entities.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Merchant, error)
	GetBySlug(ctx context.Context, slug string) (*entities.Merchant, error)
	List(ctx context.Context) ([]*entities.Merchant, error)
}

// CustomerRepository defines customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entities.Customer) error
	GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entities.Customer, error)
	// LockForUpdate loads the customer row under an exclusive row lock. The
	// lock is held until the surrounding transaction commits or rolls back,
	// which serializes all balance-affecting operations per customer.
	LockForUpdate(ctx context.Context, merchantID, id uuid.UUID) (*entities.Customer, error)
	UpdateStatus(ctx context.Context, merchantID, id uuid.UUID, status entities.CustomerStatus) error
}
