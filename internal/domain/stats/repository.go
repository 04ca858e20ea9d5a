package stats

import "context"

// Repository reads game lines written by the stats collaborator. The core
// never writes them. ListByPlayerSeason returns lines most recent first.
type Repository interface {
	GetByPlayerAndWeek(ctx context.Context, playerID, weekID string) (PlayerGameStats, bool, error)
	ListByPlayerSeason(ctx context.Context, playerID string, season int) ([]PlayerGameStats, error)
	ListPlayerIDsBySeason(ctx context.Context, season int) ([]string, error)
}
