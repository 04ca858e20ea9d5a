package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cards/internal/domain/team"
	qb "github.com/riskibarqy/fantasy-cards/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) GetByUserAndName(ctx context.Context, userID, name string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("name", name),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by user and name query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by user and name: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) ListByUser(ctx context.Context, userID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams by user: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	insertModel := teamInsertModel{
		ID:        item.ID,
		UserID:    item.UserID,
		Name:      item.Name,
		Coins:     item.Coins,
		Active:    item.Active,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	query, args, err := qb.InsertModel("teams", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}

	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("team %s already exists", item.ID)
		}
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

// AdjustCoins applies the delta only when the resulting balance stays
// non-negative; the guard lives in the WHERE clause so concurrent debits
// cannot race past it.
func (r *TeamRepository) AdjustCoins(ctx context.Context, teamID string, delta int64) (int64, error) {
	query, args, err := qb.Update("teams").
		SetExpr("coins", "coins + ?", delta).
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.Eq("id", teamID),
			qb.Expr("coins + ? >= 0", delta),
		).
		Suffix("RETURNING coins").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build adjust coins query: %w", err)
	}

	var balance int64
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &balance, query, args...); err != nil {
		if isNotFound(err) {
			if _, found, checkErr := r.GetByID(ctx, teamID); checkErr == nil && !found {
				return 0, fmt.Errorf("team %s not found", teamID)
			}
			return 0, fmt.Errorf("balance would go negative: %+d", delta)
		}
		return 0, fmt.Errorf("adjust team coins: %w", err)
	}

	return balance, nil
}

func (r *TeamRepository) SetActive(ctx context.Context, teamID string, active bool) error {
	query, args, err := qb.Update("teams").
		Set("active", active).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set team active query: %w", err)
	}

	res, err := ext(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set team active: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("team %s not found", teamID)
	}
	return nil
}
