package ledger

import (
	"errors"
	"fmt"
	"time"
)

// ErrDuplicateIdempotencyKey is surfaced by Append when the uniqueness
// constraint on (team, idempotency key) rejects the row. The caller treats
// it as a repeated request and returns the original result.
var ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

// TransactionType tags ledger entries.
type TransactionType string

const (
	TypePackPurchase TransactionType = "pack_purchase"
	TypeCardSale     TransactionType = "card_sale"
	TypeCoinGrant    TransactionType = "coin_grant"
	TypePackCoins    TransactionType = "pack_coins"
)

// Transaction is an append-only ledger entry: never updated, never
// deleted. The ledger is the source of truth for balance reconciliation
// and idempotent-retry detection. Amount is signed from the team's
// perspective (purchases negative, sales and grants positive).
type Transaction struct {
	ID             string
	TeamID         string
	Type           TransactionType
	Amount         int64
	IdempotencyKey string
	Reference      string
	CreatedAt      time.Time
}

func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction id is required")
	}
	if t.TeamID == "" {
		return fmt.Errorf("transaction team id is required")
	}
	switch t.Type {
	case TypePackPurchase, TypeCardSale, TypeCoinGrant, TypePackCoins:
	default:
		return fmt.Errorf("invalid transaction type: %s", t.Type)
	}
	return nil
}
