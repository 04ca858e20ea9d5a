package ledger

import "context"

// Repository appends and reads ledger entries. Append must enforce the
// uniqueness of a non-empty (team, idempotency key) pair at write time,
// not by pre-checking, and return ErrDuplicateIdempotencyKey on conflict.
type Repository interface {
	Append(ctx context.Context, item Transaction) error
	GetByIdempotencyKey(ctx context.Context, teamID, key string) (Transaction, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Transaction, error)
}

// UnitOfWork runs fn as one atomic unit: every repository write performed
// through the fn's context commits together or rolls back together, and no
// intermediate state is visible to concurrent readers.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}
