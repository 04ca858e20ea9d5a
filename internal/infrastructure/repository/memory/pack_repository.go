package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/pack"
)

type PackCatalogRepository struct {
	mu    sync.RWMutex
	items map[string]pack.Pack
}

func NewPackCatalogRepository(packs []pack.Pack) *PackCatalogRepository {
	items := make(map[string]pack.Pack, len(packs))
	for _, p := range packs {
		items[p.ID] = p
	}
	return &PackCatalogRepository{items: items}
}

func (r *PackCatalogRepository) GetByID(_ context.Context, packID string) (pack.Pack, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[packID]
	if !ok {
		return pack.Pack{}, false, nil
	}
	return clonePack(item), true, nil
}

func (r *PackCatalogRepository) ListEnabled(_ context.Context) ([]pack.Pack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pack.Pack
	for _, item := range r.items {
		if item.Enabled {
			out = append(out, clonePack(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func clonePack(item pack.Pack) pack.Pack {
	copied := item
	copied.Contents = make([]pack.SlotSchema, len(item.Contents))
	for i, slot := range item.Contents {
		slotCopy := slot
		slotCopy.RarityWeights = make(map[card.Rarity]float64, len(slot.RarityWeights))
		for rarity, weight := range slot.RarityWeights {
			slotCopy.RarityWeights[rarity] = weight
		}
		copied.Contents[i] = slotCopy
	}
	return copied
}

type UserPackRepository struct {
	mu    sync.RWMutex
	items map[string]pack.UserPack
	now   func() time.Time
}

func NewUserPackRepository() *UserPackRepository {
	return &UserPackRepository{items: make(map[string]pack.UserPack), now: time.Now}
}

func (r *UserPackRepository) GetByID(_ context.Context, userPackID string) (pack.UserPack, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userPackID]
	return item, ok, nil
}

func (r *UserPackRepository) ListByTeam(_ context.Context, teamID string) ([]pack.UserPack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pack.UserPack
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserPackRepository) Create(_ context.Context, item pack.UserPack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("user pack %s already exists", item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *UserPackRepository) MarkOpened(_ context.Context, userPackID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[userPackID]
	if !ok {
		return fmt.Errorf("user pack %s not found", userPackID)
	}
	if item.Status != pack.StatusUnopened {
		return fmt.Errorf("user pack %s is already opened", userPackID)
	}
	openedAt := r.now().UTC()
	item.Status = pack.StatusOpened
	item.OpenedAt = &openedAt
	r.items[userPackID] = item
	return nil
}

func (r *UserPackRepository) Snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make(map[string]pack.UserPack, len(r.items))
	for id, item := range r.items {
		copied[id] = item
	}
	return copied
}

func (r *UserPackRepository) Restore(snapshot any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = snapshot.(map[string]pack.UserPack)
}
