package token

import "math"

// Evaluate reports whether the condition holds for one slot. playerStats is
// the player's per-metric game line (missing metric reads as 0); teamResult
// is nil when the game outcome is unknown, which leaves team-result
// conditions unsatisfied rather than erroring.
func Evaluate(cond Condition, playerStats map[string]float64, teamResult *GameResult) bool {
	switch cond.Type {
	case ConditionStat:
		observed := playerStats[cond.Metric]
		switch cond.Op {
		case OpGTE:
			return observed >= cond.Value
		case OpLTE:
			return observed <= cond.Value
		case OpEQ:
			return math.Abs(observed-cond.Value) < 1e-9
		case OpGT:
			return observed > cond.Value
		case OpLT:
			return observed < cond.Value
		}
		return false
	case ConditionTeamResult:
		if teamResult == nil {
			return false
		}
		return *teamResult == cond.Result
	default:
		return false
	}
}

// ComputeReward returns the signed point delta a satisfied token adds on
// top of the slot's base points. Point rewards are flat; multiplier rewards
// scale the base points instead of adding.
func ComputeReward(reward Reward, basePoints float64) float64 {
	switch reward.Type {
	case RewardPoints:
		return reward.Value
	case RewardMultiplier:
		return basePoints*reward.Value - basePoints
	default:
		return 0
	}
}
