package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-cards/internal/domain/ledger"
	qb "github.com/riskibarqy/fantasy-cards/internal/platform/querybuilder"
)

type ledgerEntryTableModel struct {
	ID             string    `db:"id"`
	TeamID         string    `db:"team_id"`
	Type           string    `db:"type"`
	Amount         int64     `db:"amount"`
	IdempotencyKey string    `db:"idempotency_key"`
	Reference      string    `db:"reference"`
	CreatedAt      time.Time `db:"created_at"`
}

func transactionFromRow(row ledgerEntryTableModel) ledger.Transaction {
	return ledger.Transaction{
		ID:             row.ID,
		TeamID:         row.TeamID,
		Type:           ledger.TransactionType(row.Type),
		Amount:         row.Amount,
		IdempotencyKey: row.IdempotencyKey,
		Reference:      row.Reference,
		CreatedAt:      row.CreatedAt,
	}
}

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Append leans on the partial unique index over (team_id, idempotency_key)
// instead of pre-checking, so two racing retries cannot both insert.
func (r *LedgerRepository) Append(ctx context.Context, item ledger.Transaction) error {
	insertModel := ledgerEntryTableModel{
		ID:             item.ID,
		TeamID:         item.TeamID,
		Type:           string(item.Type),
		Amount:         item.Amount,
		IdempotencyKey: item.IdempotencyKey,
		Reference:      item.Reference,
		CreatedAt:      item.CreatedAt,
	}
	query, args, err := qb.InsertModel("ledger_entries", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert ledger entry query: %w", err)
	}

	if _, err := ext(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ledger.ErrDuplicateIdempotencyKey, item.IdempotencyKey)
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepository) GetByIdempotencyKey(ctx context.Context, teamID, key string) (ledger.Transaction, bool, error) {
	query, args, err := qb.Select("*").From("ledger_entries").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("idempotency_key", key),
		).
		ToSQL()
	if err != nil {
		return ledger.Transaction{}, false, fmt.Errorf("build get ledger entry query: %w", err)
	}

	var row ledgerEntryTableModel
	if err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, query, args...); err != nil {
		if isNotFound(err) {
			return ledger.Transaction{}, false, nil
		}
		return ledger.Transaction{}, false, fmt.Errorf("get ledger entry by idempotency key: %w", err)
	}

	return transactionFromRow(row), true, nil
}

func (r *LedgerRepository) ListByTeam(ctx context.Context, teamID string) ([]ledger.Transaction, error) {
	query, args, err := qb.Select("*").From("ledger_entries").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ledger entries query: %w", err)
	}

	var rows []ledgerEntryTableModel
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ledger entries by team: %w", err)
	}

	out := make([]ledger.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, transactionFromRow(row))
	}
	return out, nil
}
