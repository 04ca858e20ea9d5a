package lineup

import "context"

// Repository persists weekly lineups. Upsert overwrites the prior
// draft/submission for the (team, week) in full; last write wins.
type Repository interface {
	GetByTeamAndWeek(ctx context.Context, teamID, weekID string) (Lineup, bool, error)
	ListByWeekAndStatus(ctx context.Context, weekID string, status Status) ([]Lineup, error)
	Upsert(ctx context.Context, item Lineup) error
	MarkScored(ctx context.Context, lineupID string, item Lineup) error
}
