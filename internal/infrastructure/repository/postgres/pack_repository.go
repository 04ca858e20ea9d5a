package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cards/internal/domain/pack"
	qb "github.com/riskibarqy/fantasy-cards/internal/platform/querybuilder"
)

type PackCatalogRepository struct {
	db *sqlx.DB
}

func NewPackCatalogRepository(db *sqlx.DB) *PackCatalogRepository {
	return &PackCatalogRepository{db: db}
}

func (r *PackCatalogRepository) GetByID(ctx context.Context, packID string) (pack.Pack, bool, error) {
	query, args, err := qb.Select("*").From("packs").
		Where(qb.Eq("id", packID)).
		ToSQL()
	if err != nil {
		return pack.Pack{}, false, fmt.Errorf("build get pack query: %w", err)
	}

	var row packTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return pack.Pack{}, false, nil
		}
		return pack.Pack{}, false, fmt.Errorf("get pack: %w", err)
	}

	item, err := packFromRow(row)
	if err != nil {
		return pack.Pack{}, false, err
	}
	return item, true, nil
}

func (r *PackCatalogRepository) ListEnabled(ctx context.Context) ([]pack.Pack, error) {
	query, args, err := qb.Select("*").From("packs").
		Where(qb.Eq("enabled", true)).
		OrderBy("price_coins", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list enabled packs query: %w", err)
	}

	var rows []packTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list enabled packs: %w", err)
	}

	out := make([]pack.Pack, 0, len(rows))
	for _, row := range rows {
		item, err := packFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

type UserPackRepository struct {
	db *sqlx.DB
}

func NewUserPackRepository(db *sqlx.DB) *UserPackRepository {
	return &UserPackRepository{db: db}
}

func (r *UserPackRepository) GetByID(ctx context.Context, userPackID string) (pack.UserPack, bool, error) {
	query, args, err := qb.Select("*").From("user_packs").
		Where(qb.Eq("id", userPackID)).
		ToSQL()
	if err != nil {
		return pack.UserPack{}, false, fmt.Errorf("build get user pack query: %w", err)
	}

	var row userPackTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return pack.UserPack{}, false, nil
		}
		return pack.UserPack{}, false, fmt.Errorf("get user pack: %w", err)
	}

	return userPackFromRow(row), true, nil
}

func (r *UserPackRepository) ListByTeam(ctx context.Context, teamID string) ([]pack.UserPack, error) {
	query, args, err := qb.Select("*").From("user_packs").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("purchased_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user packs query: %w", err)
	}

	var rows []userPackTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user packs by team: %w", err)
	}

	out := make([]pack.UserPack, 0, len(rows))
	for _, row := range rows {
		out = append(out, userPackFromRow(row))
	}
	return out, nil
}

func (r *UserPackRepository) Create(ctx context.Context, item pack.UserPack) error {
	insertModel := userPackInsertModel{
		ID:          item.ID,
		TeamID:      item.TeamID,
		PackID:      item.PackID,
		Status:      string(item.Status),
		PurchasedAt: item.PurchasedAt,
	}
	query, args, err := qb.InsertModel("user_packs", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert user pack query: %w", err)
	}

	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user pack %s already exists", item.ID)
		}
		return fmt.Errorf("insert user pack: %w", err)
	}
	return nil
}

// MarkOpened relies on the status predicate for exactly-once opening:
// two concurrent opens race on the same row and only one update matches.
func (r *UserPackRepository) MarkOpened(ctx context.Context, userPackID string) error {
	query, args, err := qb.Update("user_packs").
		Set("status", string(pack.StatusOpened)).
		Set("opened_at", time.Now().UTC()).
		Where(
			qb.Eq("id", userPackID),
			qb.Eq("status", string(pack.StatusUnopened)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark user pack opened query: %w", err)
	}

	res, err := ext(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark user pack opened: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("user pack %s is already opened", userPackID)
	}
	return nil
}
