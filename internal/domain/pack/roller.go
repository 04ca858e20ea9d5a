package pack

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	"github.com/riskibarqy/fantasy-cards/internal/platform/rng"
)

// CatalogSnapshot is the point-in-time catalog view a roll samples from.
// Two identical rolls against a live catalog are not required to be
// reproducible; the snapshot only has to be stable for one roll.
type CatalogSnapshot interface {
	CardsByRarity(ctx context.Context, rarity card.Rarity) ([]card.Card, error)
	TokenTypesByRarity(ctx context.Context, rarity card.Rarity) ([]token.TokenType, error)
}

// Gap records a unit that yielded nothing because the catalog had no
// enabled entry for the drawn rarity. Gaps are logged, never errors.
type Gap struct {
	SlotIndex int
	SlotType  SlotType
	Rarity    card.Rarity
}

// RollResult is the flat grant list produced by rolling one pack.
type RollResult struct {
	Cards  []card.Card
	Tokens []token.TokenType
	Coins  int64
	Gaps   []Gap
}

// Roller performs weighted-rarity selection over a contents schema.
type Roller struct {
	random rng.Source
}

func NewRoller(random rng.Source) *Roller {
	return &Roller{random: random}
}

// Roll draws every unit of every slot in schema order. Rarity selection is
// cumulative-sum weighted sampling; the catalog entry for the drawn rarity
// is then sampled uniformly.
func (r *Roller) Roll(ctx context.Context, contents []SlotSchema, catalog CatalogSnapshot) (RollResult, error) {
	var result RollResult

	for slotIndex, slot := range contents {
		if slot.Type == SlotCoins {
			result.Coins += slot.CoinAmount * int64(slot.Units())
			continue
		}

		order, weights, total := normalizeWeights(slot.RarityWeights)
		if total <= 0 {
			return RollResult{}, fmt.Errorf("slot %d has no positive rarity weight", slotIndex)
		}

		for unit := 0; unit < slot.Units(); unit++ {
			rarity := r.drawRarity(order, weights, total)

			switch slot.Type {
			case SlotCard:
				candidates, err := catalog.CardsByRarity(ctx, rarity)
				if err != nil {
					return RollResult{}, fmt.Errorf("load cards for rarity %s: %w", rarity, err)
				}
				if len(candidates) == 0 {
					result.Gaps = append(result.Gaps, Gap{SlotIndex: slotIndex, SlotType: slot.Type, Rarity: rarity})
					continue
				}
				result.Cards = append(result.Cards, candidates[r.random.Intn(len(candidates))])
			case SlotToken:
				candidates, err := catalog.TokenTypesByRarity(ctx, rarity)
				if err != nil {
					return RollResult{}, fmt.Errorf("load token types for rarity %s: %w", rarity, err)
				}
				if len(candidates) == 0 {
					result.Gaps = append(result.Gaps, Gap{SlotIndex: slotIndex, SlotType: slot.Type, Rarity: rarity})
					continue
				}
				result.Tokens = append(result.Tokens, candidates[r.random.Intn(len(candidates))])
			}
		}
	}

	return result, nil
}

// normalizeWeights flattens the weight map into declaration order, using
// the canonical rarity order so draws are stable across map iterations.
func normalizeWeights(rarityWeights map[card.Rarity]float64) ([]card.Rarity, []float64, float64) {
	order := make([]card.Rarity, 0, len(rarityWeights))
	weights := make([]float64, 0, len(rarityWeights))
	total := 0.0
	for _, rarity := range card.AllRarities {
		weight, ok := rarityWeights[rarity]
		if !ok || weight <= 0 {
			continue
		}
		order = append(order, rarity)
		weights = append(weights, weight)
		total += weight
	}
	return order, weights, total
}

func (r *Roller) drawRarity(order []card.Rarity, weights []float64, total float64) card.Rarity {
	draw := r.random.Float64() * total
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if draw < cumulative {
			return order[i]
		}
	}
	// Floating error can exhaust the cumulative sum without a hit; the
	// first declared rarity is the mandated fallback.
	return order[0]
}
