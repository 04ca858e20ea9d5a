package trend

import (
	"math"

	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
)

// Typical weekly fantasy points per position, used as the comparison
// baseline for players with thin history.
var positionBaselines = map[player.Position]float64{
	player.PositionQuarterback:  18,
	player.PositionRunningBack:  12,
	player.PositionWideReceiver: 12,
	player.PositionTightEnd:     10,
	player.PositionKicker:       8,
	player.PositionDefense:      8,
}

const defaultBaseline = 5

// Heuristic tunables, not structural invariants.
const (
	// twoGameFloorFactor floors the two-game percentage denominator at
	// half the baseline so a near-zero previous game cannot explode it.
	twoGameFloorFactor = 0.5
	// pctClamp bounds strength to [-200, 200].
	pctClamp = 200
	// diffDeadZone absorbs float rounding noise around zero.
	diffDeadZone = 0.01
)

func Baseline(position player.Position) float64 {
	if baseline, ok := positionBaselines[position]; ok {
		return baseline
	}
	return defaultBaseline
}

// Analyze computes trend direction and strength from a player's per-game
// fantasy points, ordered most recent first.
func Analyze(position player.Position, gamePoints []float64) Trending {
	baseline := Baseline(position)
	games := len(gamePoints)

	if games == 0 {
		return Trending{Direction: DirectionStable, GamesPlayed: 0}
	}

	seasonAvg := average(gamePoints)
	last3 := gamePoints
	if games > 3 {
		last3 = gamePoints[:3]
	}
	last3Avg := average(last3)

	var diff, denominator float64
	switch games {
	case 1:
		diff = gamePoints[0] - baseline
		denominator = baseline
	case 2:
		diff = gamePoints[0] - gamePoints[1]
		denominator = math.Max(gamePoints[1], baseline*twoGameFloorFactor)
	default:
		diff = last3Avg - seasonAvg
		denominator = math.Max(seasonAvg, baseline*twoGameFloorFactor)
	}

	pct := 0
	if denominator != 0 {
		pct = int(math.Round(diff / denominator * 100))
	}
	if pct > pctClamp {
		pct = pctClamp
	}
	if pct < -pctClamp {
		pct = -pctClamp
	}

	direction := DirectionStable
	if diff > diffDeadZone {
		direction = DirectionUp
	} else if diff < -diffDeadZone {
		direction = DirectionDown
	}

	strength := pct
	if strength < 0 {
		strength = -strength
	}

	return Trending{
		Direction:   direction,
		Strength:    strength,
		SeasonAvg:   seasonAvg,
		Last3Avg:    last3Avg,
		GamesPlayed: games,
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
