package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cards/internal/domain/week"
	qb "github.com/riskibarqy/fantasy-cards/internal/platform/querybuilder"
)

type weekTableModel struct {
	ID      string    `db:"id"`
	Season  int       `db:"season"`
	Number  int       `db:"number"`
	StartAt time.Time `db:"start_at"`
	LockAt  time.Time `db:"lock_at"`
	EndAt   time.Time `db:"end_at"`
}

func weekFromRow(row weekTableModel) week.Week {
	return week.Week{
		ID:      row.ID,
		Season:  row.Season,
		Number:  row.Number,
		StartAt: row.StartAt,
		LockAt:  row.LockAt,
		EndAt:   row.EndAt,
	}
}

type WeekRepository struct {
	db *sqlx.DB
}

func NewWeekRepository(db *sqlx.DB) *WeekRepository {
	return &WeekRepository{db: db}
}

func (r *WeekRepository) GetByID(ctx context.Context, weekID string) (week.Week, bool, error) {
	query, args, err := qb.Select("*").From("weeks").
		Where(qb.Eq("id", weekID)).
		ToSQL()
	if err != nil {
		return week.Week{}, false, fmt.Errorf("build get week query: %w", err)
	}

	var row weekTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return week.Week{}, false, nil
		}
		return week.Week{}, false, fmt.Errorf("get week: %w", err)
	}

	return weekFromRow(row), true, nil
}

func (r *WeekRepository) ListBySeason(ctx context.Context, season int) ([]week.Week, error) {
	query, args, err := qb.Select("*").From("weeks").
		Where(qb.Eq("season", season)).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list weeks query: %w", err)
	}

	var rows []weekTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list weeks by season: %w", err)
	}

	out := make([]week.Week, 0, len(rows))
	for _, row := range rows {
		out = append(out, weekFromRow(row))
	}
	return out, nil
}
