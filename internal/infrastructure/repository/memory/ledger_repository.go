package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cards/internal/domain/ledger"
)

// LedgerRepository is an append-only transaction store. The idempotency
// index enforces (team, key) uniqueness at write time, matching the
// database unique constraint.
type LedgerRepository struct {
	mu     sync.RWMutex
	items  map[string]ledger.Transaction
	byIdem map[string]string
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		items:  make(map[string]ledger.Transaction),
		byIdem: make(map[string]string),
	}
}

func (r *LedgerRepository) Append(_ context.Context, item ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("transaction %s already exists", item.ID)
	}
	if item.IdempotencyKey != "" {
		key := idemKey(item.TeamID, item.IdempotencyKey)
		if _, ok := r.byIdem[key]; ok {
			return fmt.Errorf("%w: %s", ledger.ErrDuplicateIdempotencyKey, item.IdempotencyKey)
		}
		r.byIdem[key] = item.ID
	}
	r.items[item.ID] = item
	return nil
}

func (r *LedgerRepository) GetByIdempotencyKey(_ context.Context, teamID, key string) (ledger.Transaction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byIdem[idemKey(teamID, key)]
	if !ok {
		return ledger.Transaction{}, false, nil
	}
	return r.items[id], true, nil
}

func (r *LedgerRepository) ListByTeam(_ context.Context, teamID string) ([]ledger.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ledger.Transaction
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type ledgerSnapshot struct {
	items  map[string]ledger.Transaction
	byIdem map[string]string
}

func (r *LedgerRepository) Snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := ledgerSnapshot{
		items:  make(map[string]ledger.Transaction, len(r.items)),
		byIdem: make(map[string]string, len(r.byIdem)),
	}
	for id, item := range r.items {
		snap.items[id] = item
	}
	for key, id := range r.byIdem {
		snap.byIdem[key] = id
	}
	return snap
}

func (r *LedgerRepository) Restore(snapshot any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := snapshot.(ledgerSnapshot)
	r.items = snap.items
	r.byIdem = snap.byIdem
}

func idemKey(teamID, key string) string {
	return teamID + "::" + key
}
