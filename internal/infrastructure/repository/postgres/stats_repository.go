package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cards/internal/domain/stats"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	qb "github.com/riskibarqy/fantasy-cards/internal/platform/querybuilder"
)

type playerGameStatsTableModel struct {
	PlayerID   string         `db:"player_id"`
	WeekID     string         `db:"week_id"`
	GameRefID  sql.NullInt64  `db:"game_ref_id"`
	Metrics    []byte         `db:"metrics"`
	TeamResult sql.NullString `db:"team_result"`
	Finalized  bool           `db:"finalized"`
	PlayedAt   time.Time      `db:"played_at"`
}

func playerGameStatsFromRow(row playerGameStatsTableModel) (stats.PlayerGameStats, error) {
	var metrics map[string]float64
	if len(row.Metrics) > 0 {
		if err := sonic.Unmarshal(row.Metrics, &metrics); err != nil {
			return stats.PlayerGameStats{}, fmt.Errorf("unmarshal game metrics %s/%s: %w", row.PlayerID, row.WeekID, err)
		}
	}

	item := stats.PlayerGameStats{
		PlayerID:  row.PlayerID,
		WeekID:    row.WeekID,
		GameRefID: row.GameRefID.Int64,
		Metrics:   metrics,
		Finalized: row.Finalized,
		PlayedAt:  row.PlayedAt,
	}
	if row.TeamResult.Valid {
		result := token.GameResult(row.TeamResult.String)
		item.TeamResult = &result
	}
	return item, nil
}

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) GetByPlayerAndWeek(ctx context.Context, playerID, weekID string) (stats.PlayerGameStats, bool, error) {
	query, args, err := qb.Select("*").From("player_game_stats").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("week_id", weekID),
		).
		ToSQL()
	if err != nil {
		return stats.PlayerGameStats{}, false, fmt.Errorf("build get game stats query: %w", err)
	}

	var row playerGameStatsTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.PlayerGameStats{}, false, nil
		}
		return stats.PlayerGameStats{}, false, fmt.Errorf("get game stats: %w", err)
	}

	item, err := playerGameStatsFromRow(row)
	if err != nil {
		return stats.PlayerGameStats{}, false, err
	}
	return item, true, nil
}

func (r *StatsRepository) ListByPlayerSeason(ctx context.Context, playerID string, season int) ([]stats.PlayerGameStats, error) {
	query, args, err := qb.Select("s.*").
		From("player_game_stats s JOIN weeks w ON w.id = s.week_id").
		Where(
			qb.Eq("s.player_id", playerID),
			qb.Eq("w.season", season),
		).
		OrderBy("w.number DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list game stats query: %w", err)
	}

	var rows []playerGameStatsTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list game stats by player and season: %w", err)
	}

	out := make([]stats.PlayerGameStats, 0, len(rows))
	for _, row := range rows {
		item, err := playerGameStatsFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *StatsRepository) ListPlayerIDsBySeason(ctx context.Context, season int) ([]string, error) {
	query, args, err := qb.Select("DISTINCT s.player_id").
		From("player_game_stats s JOIN weeks w ON w.id = s.week_id").
		Where(qb.Eq("w.season", season)).
		OrderBy("s.player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player ids query: %w", err)
	}

	var ids []string
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list player ids by season: %w", err)
	}
	return ids, nil
}
