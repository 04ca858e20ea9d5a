package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cards/internal/domain/trend"
	qb "github.com/riskibarqy/fantasy-cards/internal/platform/querybuilder"
)

type trendTableModel struct {
	PlayerID    string    `db:"player_id"`
	Season      int       `db:"season"`
	Direction   string    `db:"direction"`
	Strength    int       `db:"strength"`
	SeasonAvg   float64   `db:"season_avg"`
	Last3Avg    float64   `db:"last3_avg"`
	GamesPlayed int       `db:"games_played"`
	ComputedAt  time.Time `db:"computed_at"`
}

func trendFromRow(row trendTableModel) trend.Trending {
	return trend.Trending{
		PlayerID:    row.PlayerID,
		Season:      row.Season,
		Direction:   trend.Direction(row.Direction),
		Strength:    row.Strength,
		SeasonAvg:   row.SeasonAvg,
		Last3Avg:    row.Last3Avg,
		GamesPlayed: row.GamesPlayed,
		ComputedAt:  row.ComputedAt,
	}
}

type TrendRepository struct {
	db *sqlx.DB
}

func NewTrendRepository(db *sqlx.DB) *TrendRepository {
	return &TrendRepository{db: db}
}

func (r *TrendRepository) Get(ctx context.Context, playerID string, season int) (trend.Trending, bool, error) {
	query, args, err := qb.Select("*").From("player_trends").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("season", season),
		).
		ToSQL()
	if err != nil {
		return trend.Trending{}, false, fmt.Errorf("build get trending query: %w", err)
	}

	var row trendTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return trend.Trending{}, false, nil
		}
		return trend.Trending{}, false, fmt.Errorf("get trending: %w", err)
	}

	return trendFromRow(row), true, nil
}

func (r *TrendRepository) ListBySeason(ctx context.Context, season int) ([]trend.Trending, error) {
	query, args, err := qb.Select("*").From("player_trends").
		Where(qb.Eq("season", season)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list trending query: %w", err)
	}

	var rows []trendTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list trending by season: %w", err)
	}

	out := make([]trend.Trending, 0, len(rows))
	for _, row := range rows {
		out = append(out, trendFromRow(row))
	}
	return out, nil
}

func (r *TrendRepository) Upsert(ctx context.Context, item trend.Trending) error {
	insertModel := trendTableModel{
		PlayerID:    item.PlayerID,
		Season:      item.Season,
		Direction:   string(item.Direction),
		Strength:    item.Strength,
		SeasonAvg:   item.SeasonAvg,
		Last3Avg:    item.Last3Avg,
		GamesPlayed: item.GamesPlayed,
		ComputedAt:  item.ComputedAt,
	}
	query, args, err := qb.InsertModel("player_trends", insertModel, `ON CONFLICT (player_id, season)
DO UPDATE SET
    direction = EXCLUDED.direction,
    strength = EXCLUDED.strength,
    season_avg = EXCLUDED.season_avg,
    last3_avg = EXCLUDED.last3_avg,
    games_played = EXCLUDED.games_played,
    computed_at = EXCLUDED.computed_at`)
	if err != nil {
		return fmt.Errorf("build upsert trending query: %w", err)
	}

	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert trending: %w", err)
	}
	return nil
}
