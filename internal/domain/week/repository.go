package week

import "context"

// Repository reads week metadata populated by the sync collaborator.
type Repository interface {
	GetByID(ctx context.Context, weekID string) (Week, bool, error)
	ListBySeason(ctx context.Context, season int) ([]Week, error)
}
