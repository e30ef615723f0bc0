package repositories

import "context"

// UnitOfWork runs a function within a single transaction boundary. Every
// multi-statement mutation in the core goes through Do: either all writes
// commit or none do.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
