package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	qb "github.com/riskibarqy/fantasy-cards/internal/platform/querybuilder"
)

type TokenCatalogRepository struct {
	db *sqlx.DB
}

func NewTokenCatalogRepository(db *sqlx.DB) *TokenCatalogRepository {
	return &TokenCatalogRepository{db: db}
}

func (r *TokenCatalogRepository) GetByID(ctx context.Context, tokenTypeID string) (token.TokenType, bool, error) {
	query, args, err := qb.Select("*").From("token_types").
		Where(qb.Eq("id", tokenTypeID)).
		ToSQL()
	if err != nil {
		return token.TokenType{}, false, fmt.Errorf("build get token type query: %w", err)
	}

	var row tokenTypeTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return token.TokenType{}, false, nil
		}
		return token.TokenType{}, false, fmt.Errorf("get token type: %w", err)
	}

	item, err := tokenTypeFromRow(row)
	if err != nil {
		return token.TokenType{}, false, err
	}
	return item, true, nil
}

func (r *TokenCatalogRepository) ListEnabledByRarity(ctx context.Context, rarity card.Rarity) ([]token.TokenType, error) {
	query, args, err := qb.Select("*").From("token_types").
		Where(
			qb.Eq("rarity", string(rarity)),
			qb.Eq("enabled", true),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list token types by rarity query: %w", err)
	}

	var rows []tokenTypeTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list token types by rarity: %w", err)
	}

	out := make([]token.TokenType, 0, len(rows))
	for _, row := range rows {
		item, err := tokenTypeFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

type UserTokenRepository struct {
	db *sqlx.DB
}

func NewUserTokenRepository(db *sqlx.DB) *UserTokenRepository {
	return &UserTokenRepository{db: db}
}

func (r *UserTokenRepository) GetByID(ctx context.Context, userTokenID string) (token.UserToken, bool, error) {
	query, args, err := qb.Select("*").From("user_tokens").
		Where(qb.Eq("id", userTokenID)).
		ToSQL()
	if err != nil {
		return token.UserToken{}, false, fmt.Errorf("build get user token query: %w", err)
	}

	var row userTokenTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return token.UserToken{}, false, nil
		}
		return token.UserToken{}, false, fmt.Errorf("get user token: %w", err)
	}

	return userTokenFromRow(row), true, nil
}

func (r *UserTokenRepository) ListByTeam(ctx context.Context, teamID string) ([]token.UserToken, error) {
	query, args, err := qb.Select("*").From("user_tokens").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("acquired_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user tokens query: %w", err)
	}

	var rows []userTokenTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user tokens by team: %w", err)
	}

	out := make([]token.UserToken, 0, len(rows))
	for _, row := range rows {
		out = append(out, userTokenFromRow(row))
	}
	return out, nil
}

func (r *UserTokenRepository) CreateBatch(ctx context.Context, items []token.UserToken) error {
	for _, item := range items {
		insertModel := userTokenInsertModel{
			ID:            item.ID,
			TeamID:        item.TeamID,
			TokenTypeID:   item.TokenTypeID,
			UsesRemaining: item.UsesRemaining,
			AcquiredAt:    item.AcquiredAt,
			UpdatedAt:     item.UpdatedAt,
		}
		query, args, err := qb.InsertModel("user_tokens", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert user token query: %w", err)
		}
		if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("user token %s already exists", item.ID)
			}
			return fmt.Errorf("insert user token: %w", err)
		}
	}
	return nil
}

func (r *UserTokenRepository) ConsumeUse(ctx context.Context, userTokenID string) error {
	query, args, err := qb.Update("user_tokens").
		SetExpr("uses_remaining", "uses_remaining - 1").
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.Eq("id", userTokenID),
			qb.Gt("uses_remaining", 0),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build consume token use query: %w", err)
	}

	res, err := ext(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("consume user token use: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("user token %s has no uses remaining", userTokenID)
	}
	return nil
}
