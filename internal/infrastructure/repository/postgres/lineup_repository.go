package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cards/internal/domain/lineup"
	qb "github.com/riskibarqy/fantasy-cards/internal/platform/querybuilder"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) GetByTeamAndWeek(ctx context.Context, teamID, weekID string) (lineup.Lineup, bool, error) {
	query, args, err := qb.Select("*").From("lineups").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("week_id", weekID),
		).
		ToSQL()
	if err != nil {
		return lineup.Lineup{}, false, fmt.Errorf("build get lineup query: %w", err)
	}

	var row lineupTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return lineup.Lineup{}, false, nil
		}
		return lineup.Lineup{}, false, fmt.Errorf("get lineup: %w", err)
	}

	item, err := lineupFromRow(row)
	if err != nil {
		return lineup.Lineup{}, false, err
	}
	return item, true, nil
}

func (r *LineupRepository) ListByWeekAndStatus(ctx context.Context, weekID string, status lineup.Status) ([]lineup.Lineup, error) {
	query, args, err := qb.Select("*").From("lineups").
		Where(
			qb.Eq("week_id", weekID),
			qb.Eq("status", string(status)),
		).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineups query: %w", err)
	}

	var rows []lineupTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineups by week and status: %w", err)
	}

	out := make([]lineup.Lineup, 0, len(rows))
	for _, row := range rows {
		item, err := lineupFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *LineupRepository) Upsert(ctx context.Context, item lineup.Lineup) error {
	slots, err := lineupSlotsToJSON(item.Slots)
	if err != nil {
		return fmt.Errorf("marshal lineup slots: %w", err)
	}

	insertModel := lineupTableModel{
		ID:          item.ID,
		TeamID:      item.TeamID,
		WeekID:      item.WeekID,
		Status:      string(item.Status),
		Slots:       slots,
		TotalPoints: item.TotalPoints,
		SubmittedAt: item.SubmittedAt,
		ScoredAt:    item.ScoredAt,
		UpdatedAt:   item.UpdatedAt,
	}
	query, args, err := qb.InsertModel("lineups", insertModel, `ON CONFLICT (team_id, week_id)
DO UPDATE SET
    status = EXCLUDED.status,
    slots = EXCLUDED.slots,
    total_points = EXCLUDED.total_points,
    submitted_at = EXCLUDED.submitted_at,
    scored_at = EXCLUDED.scored_at,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert lineup query: %w", err)
	}

	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert lineup: %w", err)
	}
	return nil
}

// MarkScored writes the scored lineup only when the row has not been
// scored yet, which keeps a re-run of the batch from double counting.
func (r *LineupRepository) MarkScored(ctx context.Context, lineupID string, item lineup.Lineup) error {
	slots, err := lineupSlotsToJSON(item.Slots)
	if err != nil {
		return fmt.Errorf("marshal lineup slots: %w", err)
	}

	query, args, err := qb.Update("lineups").
		Set("status", string(lineup.StatusScored)).
		Set("slots", slots).
		Set("total_points", item.TotalPoints).
		Set("scored_at", item.ScoredAt).
		Set("updated_at", item.UpdatedAt).
		Where(
			qb.Eq("id", lineupID),
			qb.Ne("status", string(lineup.StatusScored)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark lineup scored query: %w", err)
	}

	res, err := ext(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark lineup scored: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("lineup %s is already scored", lineupID)
	}
	return nil
}
