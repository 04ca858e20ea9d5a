package card

import "testing"

func baseUserCard() UserCard {
	return UserCard{
		ID:                 "uc-1",
		TeamID:             "team-1",
		CardID:             "card-1",
		PlayerID:           "player-1",
		RemainingContracts: 10,
		CurrentSellValue:   100,
		CurrentRarity:      RarityCommon,
		Status:             StatusOwned,
	}
}

func TestEvolve_BelowFirstThreshold(t *testing.T) {
	got := Evolve(baseUserCard(), 39.9)

	if got.Rarity != RarityCommon {
		t.Fatalf("expected common, got %s", got.Rarity)
	}
	if got.TierUps != 0 {
		t.Fatalf("expected no tier ups, got %d", got.TierUps)
	}
	if got.TotalFantasyPoints != 39.9 {
		t.Fatalf("expected accumulator 39.9, got %v", got.TotalFantasyPoints)
	}
}

func TestEvolve_CrossesFirstThreshold(t *testing.T) {
	got := Evolve(baseUserCard(), 40)

	if got.Rarity != RarityRare {
		t.Fatalf("expected rare, got %s", got.Rarity)
	}
	if got.TierUps != 1 {
		t.Fatalf("expected one tier up, got %d", got.TierUps)
	}
	if got.RemainingContracts != 15 {
		t.Fatalf("expected contracts scaled to 15, got %d", got.RemainingContracts)
	}
	if got.CurrentSellValue != 150 {
		t.Fatalf("expected sell value scaled to 150, got %d", got.CurrentSellValue)
	}
}

func TestEvolve_SkipsMultipleTiersInOneEvent(t *testing.T) {
	got := Evolve(baseUserCard(), 250)

	if got.Rarity != RarityLegendary {
		t.Fatalf("expected legendary, got %s", got.Rarity)
	}
	if got.TierUps != 3 {
		t.Fatalf("expected three tier ups, got %d", got.TierUps)
	}
	// 10 -> ceil(15) -> ceil(30) -> ceil(90)
	if got.RemainingContracts != 90 {
		t.Fatalf("expected contracts 90, got %d", got.RemainingContracts)
	}
}

func TestEvolve_NeverDowngrades(t *testing.T) {
	item := baseUserCard()
	item.CurrentRarity = RarityEpic
	item.TotalFantasyPoints = 120

	got := Evolve(item, 5)
	if got.Rarity != RarityEpic {
		t.Fatalf("expected rarity unchanged at epic, got %s", got.Rarity)
	}
	if got.TierUps != 0 {
		t.Fatalf("expected no tier ups, got %d", got.TierUps)
	}
}

func TestEvolve_MonotonicAcrossSequence(t *testing.T) {
	item := baseUserCard()
	previousRank := 0
	for _, delta := range []float64{10, 35, 30, 0, 90, 50} {
		result := Evolve(item, delta)
		rank := evolutionRank(result.Rarity)
		if rank < previousRank {
			t.Fatalf("rarity downgraded from rank %d to %d", previousRank, rank)
		}
		previousRank = rank

		if want := TierForPoints(result.TotalFantasyPoints); result.Rarity != want {
			t.Fatalf("rarity %s does not match highest met threshold tier %s", result.Rarity, want)
		}

		item.TotalFantasyPoints = result.TotalFantasyPoints
		item.CurrentRarity = result.Rarity
		item.RemainingContracts = result.RemainingContracts
		item.CurrentSellValue = result.CurrentSellValue
	}
}
