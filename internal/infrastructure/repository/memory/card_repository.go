package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
)

type CardCatalogRepository struct {
	mu       sync.RWMutex
	items    map[string]card.Card
	byRarity map[card.Rarity][]card.Card
}

func NewCardCatalogRepository(cards []card.Card) *CardCatalogRepository {
	items := make(map[string]card.Card, len(cards))
	byRarity := make(map[card.Rarity][]card.Card)
	for _, c := range cards {
		items[c.ID] = c
		if c.Enabled {
			byRarity[c.Rarity] = append(byRarity[c.Rarity], c)
		}
	}
	return &CardCatalogRepository{items: items, byRarity: byRarity}
}

func (r *CardCatalogRepository) GetByID(_ context.Context, cardID string) (card.Card, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[cardID]
	return item, ok, nil
}

func (r *CardCatalogRepository) ListEnabledByRarity(_ context.Context, rarity card.Rarity) ([]card.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byRarity[rarity]
	out := make([]card.Card, 0, len(items))
	out = append(out, items...)
	return out, nil
}

type UserCardRepository struct {
	mu    sync.RWMutex
	items map[string]card.UserCard
	now   func() time.Time
}

func NewUserCardRepository() *UserCardRepository {
	return &UserCardRepository{items: make(map[string]card.UserCard), now: time.Now}
}

func (r *UserCardRepository) GetByID(_ context.Context, userCardID string) (card.UserCard, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userCardID]
	return item, ok, nil
}

func (r *UserCardRepository) GetByIDs(_ context.Context, userCardIDs []string) ([]card.UserCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]card.UserCard, 0, len(userCardIDs))
	for _, id := range userCardIDs {
		item, ok := r.items[id]
		if !ok {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *UserCardRepository) ListByTeam(_ context.Context, teamID string) ([]card.UserCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []card.UserCard
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserCardRepository) CreateBatch(_ context.Context, items []card.UserCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if _, ok := r.items[item.ID]; ok {
			return fmt.Errorf("user card %s already exists", item.ID)
		}
	}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *UserCardRepository) MarkSold(_ context.Context, userCardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[userCardID]
	if !ok {
		return fmt.Errorf("user card %s not found", userCardID)
	}
	if item.Status != card.StatusOwned {
		return fmt.Errorf("user card %s is not owned", userCardID)
	}
	item.Status = card.StatusSold
	item.UpdatedAt = r.now().UTC()
	r.items[userCardID] = item
	return nil
}

func (r *UserCardRepository) ConsumeContract(_ context.Context, userCardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[userCardID]
	if !ok {
		return fmt.Errorf("user card %s not found", userCardID)
	}
	if item.Status != card.StatusOwned {
		return fmt.Errorf("user card %s is not owned", userCardID)
	}
	if item.RemainingContracts <= 0 {
		return fmt.Errorf("user card %s has no contracts remaining", userCardID)
	}
	item.RemainingContracts--
	item.UpdatedAt = r.now().UTC()
	r.items[userCardID] = item
	return nil
}

func (r *UserCardRepository) ApplyEvolution(_ context.Context, userCardID string, result card.EvolutionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[userCardID]
	if !ok {
		return fmt.Errorf("user card %s not found", userCardID)
	}
	// Sold records are immutable; evolution only ever touches owned cards.
	if item.Status != card.StatusOwned {
		return fmt.Errorf("user card %s is not owned", userCardID)
	}
	item.TotalFantasyPoints = result.TotalFantasyPoints
	item.CurrentRarity = result.Rarity
	item.RemainingContracts = result.RemainingContracts
	item.CurrentSellValue = result.CurrentSellValue
	item.UpdatedAt = r.now().UTC()
	r.items[userCardID] = item
	return nil
}

func (r *UserCardRepository) Snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make(map[string]card.UserCard, len(r.items))
	for id, item := range r.items {
		copied[id] = item
	}
	return copied
}

func (r *UserCardRepository) Restore(snapshot any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = snapshot.(map[string]card.UserCard)
}
