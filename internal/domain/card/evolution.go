package card

import "math"

// Evolution ladder. Tiers are cumulative fantasy-point thresholds; a card
// advances to the highest tier whose threshold is met and never downgrades.
// The uncommon catalog rarity is not part of the ladder: evolution jumps
// straight from common to rare.
type evolutionTier struct {
	Rarity             Rarity
	Threshold          float64
	ContractMultiplier float64
	SellMultiplier     float64
}

// Multipliers are tunable policy, not structural invariants.
var evolutionLadder = []evolutionTier{
	{Rarity: RarityRare, Threshold: 40, ContractMultiplier: 1.5, SellMultiplier: 1.5},
	{Rarity: RarityEpic, Threshold: 100, ContractMultiplier: 2, SellMultiplier: 2},
	{Rarity: RarityLegendary, Threshold: 200, ContractMultiplier: 3, SellMultiplier: 3},
}

func LowestEvolutionTier() Rarity {
	return RarityCommon
}

func evolutionRank(r Rarity) int {
	for i, tier := range evolutionLadder {
		if tier.Rarity == r {
			return i + 1
		}
	}
	return 0
}

// TierForPoints returns the highest ladder tier whose threshold is covered
// by the accumulated points.
func TierForPoints(totalPoints float64) Rarity {
	current := LowestEvolutionTier()
	for _, tier := range evolutionLadder {
		if totalPoints >= tier.Threshold {
			current = tier.Rarity
		}
	}
	return current
}

// EvolutionResult describes the state a card should be persisted with after
// absorbing one scoring event. The caller applies it atomically together
// with the point accumulation.
type EvolutionResult struct {
	TotalFantasyPoints float64
	Rarity             Rarity
	RemainingContracts int
	CurrentSellValue   int64
	TierUps            int
}

// Evolve adds pointsEarned to the card's accumulator and advances the tier.
// It must be invoked exactly once per scoring event; the function itself is
// pure and leaves persistence to the caller. Each tier crossed scales the
// remaining contracts and sell value by that tier's multiplier.
func Evolve(item UserCard, pointsEarned float64) EvolutionResult {
	total := item.TotalFantasyPoints + pointsEarned
	fromRank := evolutionRank(item.CurrentRarity)
	target := TierForPoints(total)
	toRank := evolutionRank(target)

	// Never downgrade, even if the stored rarity is ahead of the ladder.
	if toRank < fromRank {
		target = item.CurrentRarity
		toRank = fromRank
	}

	contracts := item.RemainingContracts
	sellValue := item.CurrentSellValue
	tierUps := 0
	for rank := fromRank; rank < toRank; rank++ {
		tier := evolutionLadder[rank]
		contracts = int(math.Ceil(float64(contracts) * tier.ContractMultiplier))
		sellValue = int64(math.Ceil(float64(sellValue) * tier.SellMultiplier))
		tierUps++
	}

	return EvolutionResult{
		TotalFantasyPoints: total,
		Rarity:             target,
		RemainingContracts: contracts,
		CurrentSellValue:   sellValue,
		TierUps:            tierUps,
	}
}
