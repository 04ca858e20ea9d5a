package pack

import (
	"context"
	"testing"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	"github.com/riskibarqy/fantasy-cards/internal/platform/rng"
)

type stubCatalog struct {
	cards  map[card.Rarity][]card.Card
	tokens map[card.Rarity][]token.TokenType
}

func (s stubCatalog) CardsByRarity(_ context.Context, rarity card.Rarity) ([]card.Card, error) {
	return s.cards[rarity], nil
}

func (s stubCatalog) TokenTypesByRarity(_ context.Context, rarity card.Rarity) ([]token.TokenType, error) {
	return s.tokens[rarity], nil
}

type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) Intn(int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func twoRarityCatalog() stubCatalog {
	return stubCatalog{
		cards: map[card.Rarity][]card.Card{
			card.RarityCommon: {{ID: "c-common", PlayerID: "p1", Rarity: card.RarityCommon}},
			card.RarityRare:   {{ID: "c-rare", PlayerID: "p2", Rarity: card.RarityRare}},
		},
		tokens: map[card.Rarity][]token.TokenType{
			card.RarityCommon: {{ID: "t-common", Rarity: card.RarityCommon}},
		},
	}
}

func TestRoll_ScriptedDraws(t *testing.T) {
	// total weight 100; 0.05*100=5 lands in common, 0.95*100=95 in rare.
	source := &scriptedSource{floats: []float64{0.05, 0.95}}
	roller := NewRoller(source)

	contents := []SlotSchema{{
		Type:  SlotCard,
		Count: 2,
		RarityWeights: map[card.Rarity]float64{
			card.RarityCommon: 90,
			card.RarityRare:   10,
		},
	}}

	result, err := roller.Roll(t.Context(), contents, twoRarityCatalog())
	if err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if len(result.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(result.Cards))
	}
	if result.Cards[0].ID != "c-common" || result.Cards[1].ID != "c-rare" {
		t.Fatalf("unexpected draws: %s, %s", result.Cards[0].ID, result.Cards[1].ID)
	}
}

func TestRoll_EmptyRarityYieldsGapNotError(t *testing.T) {
	source := &scriptedSource{floats: []float64{0.99}}
	roller := NewRoller(source)

	contents := []SlotSchema{{
		Type:          SlotToken,
		RarityWeights: map[card.Rarity]float64{card.RarityLegendary: 1},
	}}

	result, err := roller.Roll(t.Context(), contents, twoRarityCatalog())
	if err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if len(result.Tokens) != 0 {
		t.Fatalf("expected no tokens, got %d", len(result.Tokens))
	}
	if len(result.Gaps) != 1 || result.Gaps[0].Rarity != card.RarityLegendary {
		t.Fatalf("expected one legendary gap, got %+v", result.Gaps)
	}
}

func TestRoll_CoinSlots(t *testing.T) {
	roller := NewRoller(&scriptedSource{})

	contents := []SlotSchema{{Type: SlotCoins, Count: 3, CoinAmount: 50}}
	result, err := roller.Roll(t.Context(), contents, twoRarityCatalog())
	if err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if result.Coins != 150 {
		t.Fatalf("expected 150 coins, got %d", result.Coins)
	}
}

func TestRoll_ExhaustedCumulativeFallsBackToFirstRarity(t *testing.T) {
	// A draw of exactly 1.0 cannot happen from Float64, but accumulated
	// floating error can leave the cumulative sum short; force the loop to
	// run out by scripting the largest representable draw.
	source := &scriptedSource{floats: []float64{0.9999999999999999}}
	roller := NewRoller(source)

	contents := []SlotSchema{{
		Type: SlotCard,
		RarityWeights: map[card.Rarity]float64{
			card.RarityCommon: 0.1,
			card.RarityRare:   0.2,
		},
	}}

	result, err := roller.Roll(t.Context(), contents, twoRarityCatalog())
	if err != nil {
		t.Fatalf("roll failed: %v", err)
	}
	if len(result.Cards) != 1 {
		t.Fatalf("expected a card, got %d", len(result.Cards))
	}
}

func TestRoll_NoPositiveWeightIsError(t *testing.T) {
	roller := NewRoller(&scriptedSource{})

	contents := []SlotSchema{{
		Type:          SlotCard,
		RarityWeights: map[card.Rarity]float64{card.RarityCommon: 0},
	}}

	if _, err := roller.Roll(t.Context(), contents, twoRarityCatalog()); err == nil {
		t.Fatal("expected error for zero total weight")
	}
}

func TestRoll_WeightedDistribution(t *testing.T) {
	roller := NewRoller(rng.NewSeeded(42))

	contents := []SlotSchema{{
		Type:  SlotCard,
		Count: 100000,
		RarityWeights: map[card.Rarity]float64{
			card.RarityCommon: 90,
			card.RarityRare:   10,
		},
	}}

	result, err := roller.Roll(t.Context(), contents, twoRarityCatalog())
	if err != nil {
		t.Fatalf("roll failed: %v", err)
	}

	commons := 0
	for _, c := range result.Cards {
		if c.Rarity == card.RarityCommon {
			commons++
		}
	}
	if commons < 85000 || commons > 95000 {
		t.Fatalf("common draws outside statistical tolerance: %d", commons)
	}
}
