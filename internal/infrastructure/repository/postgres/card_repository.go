package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	qb "github.com/riskibarqy/fantasy-cards/internal/platform/querybuilder"
)

type CardCatalogRepository struct {
	db *sqlx.DB
}

func NewCardCatalogRepository(db *sqlx.DB) *CardCatalogRepository {
	return &CardCatalogRepository{db: db}
}

func (r *CardCatalogRepository) GetByID(ctx context.Context, cardID string) (card.Card, bool, error) {
	query, args, err := qb.Select("*").From("cards").
		Where(qb.Eq("id", cardID)).
		ToSQL()
	if err != nil {
		return card.Card{}, false, fmt.Errorf("build get card query: %w", err)
	}

	var row cardTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return card.Card{}, false, nil
		}
		return card.Card{}, false, fmt.Errorf("get card: %w", err)
	}

	return cardFromRow(row), true, nil
}

func (r *CardCatalogRepository) ListEnabledByRarity(ctx context.Context, rarity card.Rarity) ([]card.Card, error) {
	query, args, err := qb.Select("*").From("cards").
		Where(
			qb.Eq("rarity", string(rarity)),
			qb.Eq("enabled", true),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list cards by rarity query: %w", err)
	}

	var rows []cardTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cards by rarity: %w", err)
	}

	out := make([]card.Card, 0, len(rows))
	for _, row := range rows {
		out = append(out, cardFromRow(row))
	}
	return out, nil
}

type UserCardRepository struct {
	db *sqlx.DB
}

func NewUserCardRepository(db *sqlx.DB) *UserCardRepository {
	return &UserCardRepository{db: db}
}

func (r *UserCardRepository) GetByID(ctx context.Context, userCardID string) (card.UserCard, bool, error) {
	query, args, err := qb.Select("*").From("user_cards").
		Where(qb.Eq("id", userCardID)).
		ToSQL()
	if err != nil {
		return card.UserCard{}, false, fmt.Errorf("build get user card query: %w", err)
	}

	var row userCardTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return card.UserCard{}, false, nil
		}
		return card.UserCard{}, false, fmt.Errorf("get user card: %w", err)
	}

	return userCardFromRow(row), true, nil
}

func (r *UserCardRepository) GetByIDs(ctx context.Context, userCardIDs []string) ([]card.UserCard, error) {
	if len(userCardIDs) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(userCardIDs))
	for _, id := range userCardIDs {
		ids = append(ids, id)
	}
	query, args, err := qb.Select("*").From("user_cards").
		Where(qb.In("id", ids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get user cards query: %w", err)
	}

	var rows []userCardTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get user cards: %w", err)
	}

	out := make([]card.UserCard, 0, len(rows))
	for _, row := range rows {
		out = append(out, userCardFromRow(row))
	}
	return out, nil
}

func (r *UserCardRepository) ListByTeam(ctx context.Context, teamID string) ([]card.UserCard, error) {
	query, args, err := qb.Select("*").From("user_cards").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("acquired_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user cards query: %w", err)
	}

	var rows []userCardTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user cards by team: %w", err)
	}

	out := make([]card.UserCard, 0, len(rows))
	for _, row := range rows {
		out = append(out, userCardFromRow(row))
	}
	return out, nil
}

func (r *UserCardRepository) CreateBatch(ctx context.Context, items []card.UserCard) error {
	for _, item := range items {
		insertModel := userCardInsertModel{
			ID:                 item.ID,
			TeamID:             item.TeamID,
			CardID:             item.CardID,
			PlayerID:           item.PlayerID,
			RemainingContracts: item.RemainingContracts,
			CurrentSellValue:   item.CurrentSellValue,
			CurrentRarity:      string(item.CurrentRarity),
			TotalFantasyPoints: item.TotalFantasyPoints,
			Status:             string(item.Status),
			AcquiredAt:         item.AcquiredAt,
			UpdatedAt:          item.UpdatedAt,
		}
		query, args, err := qb.InsertModel("user_cards", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert user card query: %w", err)
		}
		if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("user card %s already exists", item.ID)
			}
			return fmt.Errorf("insert user card: %w", err)
		}
	}
	return nil
}

func (r *UserCardRepository) MarkSold(ctx context.Context, userCardID string) error {
	query, args, err := qb.Update("user_cards").
		Set("status", string(card.StatusSold)).
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.Eq("id", userCardID),
			qb.Eq("status", string(card.StatusOwned)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark user card sold query: %w", err)
	}

	res, err := ext(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark user card sold: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("user card %s is not owned", userCardID)
	}
	return nil
}

func (r *UserCardRepository) ConsumeContract(ctx context.Context, userCardID string) error {
	query, args, err := qb.Update("user_cards").
		SetExpr("remaining_contracts", "remaining_contracts - 1").
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.Eq("id", userCardID),
			qb.Eq("status", string(card.StatusOwned)),
			qb.Gt("remaining_contracts", 0),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build consume contract query: %w", err)
	}

	res, err := ext(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("consume user card contract: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("user card %s is not owned or has no contracts remaining", userCardID)
	}
	return nil
}

func (r *UserCardRepository) ApplyEvolution(ctx context.Context, userCardID string, result card.EvolutionResult) error {
	query, args, err := qb.Update("user_cards").
		Set("total_fantasy_points", result.TotalFantasyPoints).
		Set("current_rarity", string(result.Rarity)).
		Set("remaining_contracts", result.RemainingContracts).
		Set("current_sell_value", result.CurrentSellValue).
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.Eq("id", userCardID),
			// Sold records are immutable.
			qb.Eq("status", string(card.StatusOwned)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build apply evolution query: %w", err)
	}

	res, err := ext(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("apply user card evolution: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("user card %s is not owned", userCardID)
	}
	return nil
}
