package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
)

// LedgerRepository defines ledger data operations. The ledger is append-only:
// no implementation may expose update or delete of entries. Insert returns
// ErrAlreadyExists when the (merchant, idempotency key) uniqueness constraint
// rejects the row.
type LedgerRepository interface {
	Insert(ctx context.Context, entry *entities.LedgerEntry) error
	GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entities.LedgerEntry, error)
	GetByIdempotencyKey(ctx context.Context, merchantID uuid.UUID, key string) (*entities.LedgerEntry, error)
	// SumDeltas derives the balance for a customer: the sum of points deltas
	// over all of their entries, 0 when there are none.
	SumDeltas(ctx context.Context, merchantID, customerID uuid.UUID) (int64, error)
	List(ctx context.Context, merchantID, customerID uuid.UUID, limit int) ([]*entities.LedgerEntry, error)
}
