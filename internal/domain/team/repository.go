package team

import "context"

// Repository describes team persistence needs from use cases.
// AdjustCoins applies a signed delta and fails if the result would be
// negative; it is only called from inside a ledger unit of work.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByUserAndName(ctx context.Context, userID, name string) (Team, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Team, error)
	Create(ctx context.Context, item Team) error
	AdjustCoins(ctx context.Context, teamID string, delta int64) (int64, error)
	SetActive(ctx context.Context, teamID string, active bool) error
}
