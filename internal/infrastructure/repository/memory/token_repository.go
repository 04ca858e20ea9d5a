package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
)

type TokenCatalogRepository struct {
	mu       sync.RWMutex
	items    map[string]token.TokenType
	byRarity map[card.Rarity][]token.TokenType
}

func NewTokenCatalogRepository(tokenTypes []token.TokenType) *TokenCatalogRepository {
	items := make(map[string]token.TokenType, len(tokenTypes))
	byRarity := make(map[card.Rarity][]token.TokenType)
	for _, t := range tokenTypes {
		items[t.ID] = t
		if t.Enabled {
			byRarity[t.Rarity] = append(byRarity[t.Rarity], t)
		}
	}
	return &TokenCatalogRepository{items: items, byRarity: byRarity}
}

func (r *TokenCatalogRepository) GetByID(_ context.Context, tokenTypeID string) (token.TokenType, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[tokenTypeID]
	return item, ok, nil
}

func (r *TokenCatalogRepository) ListEnabledByRarity(_ context.Context, rarity card.Rarity) ([]token.TokenType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byRarity[rarity]
	out := make([]token.TokenType, 0, len(items))
	out = append(out, items...)
	return out, nil
}

type UserTokenRepository struct {
	mu    sync.RWMutex
	items map[string]token.UserToken
}

func NewUserTokenRepository() *UserTokenRepository {
	return &UserTokenRepository{items: make(map[string]token.UserToken)}
}

func (r *UserTokenRepository) GetByID(_ context.Context, userTokenID string) (token.UserToken, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userTokenID]
	return item, ok, nil
}

func (r *UserTokenRepository) ListByTeam(_ context.Context, teamID string) ([]token.UserToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []token.UserToken
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserTokenRepository) CreateBatch(_ context.Context, items []token.UserToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if _, ok := r.items[item.ID]; ok {
			return fmt.Errorf("user token %s already exists", item.ID)
		}
	}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *UserTokenRepository) ConsumeUse(_ context.Context, userTokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[userTokenID]
	if !ok {
		return fmt.Errorf("user token %s not found", userTokenID)
	}
	if item.UsesRemaining <= 0 {
		return fmt.Errorf("user token %s has no uses remaining", userTokenID)
	}
	item.UsesRemaining--
	r.items[userTokenID] = item
	return nil
}

func (r *UserTokenRepository) Snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make(map[string]token.UserToken, len(r.items))
	for id, item := range r.items {
		copied[id] = item
	}
	return copied
}

func (r *UserTokenRepository) Restore(snapshot any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = snapshot.(map[string]token.UserToken)
}
