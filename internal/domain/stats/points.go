package stats

import (
	"math"

	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
)

// Profile fixes the reception weight; everything else in the linear scoring
// formula is shared. Callers must pick one profile and use it consistently
// across live scoring and historical aggregation.
type Profile struct {
	ReceptionWeight float64
}

var (
	// ProfileWeekly is half-PPR, used by lineup scoring and trend recompute.
	ProfileWeekly = Profile{ReceptionWeight: 0.5}
	// ProfileSeason is full-PPR, used for season aggregates.
	ProfileSeason = Profile{ReceptionWeight: 1}
)

// Line is the translated per-metric breakdown for one game.
type Line struct {
	Position        player.Position
	PassingPoints   float64
	RushingPoints   float64
	ReceivingPoints float64
	TurnoverPoints  float64
	FantasyPoints   float64
}

// Translate converts a raw per-metric game line into fantasy points for the
// given position. The function is pure, identical for live and historical
// use, and the result is rounded to one decimal and floored at 0.
func Translate(position player.Position, metrics map[string]float64, profile Profile) Line {
	passing := metrics[MetricPassingYards]*0.04 + metrics[MetricPassingTouchdowns]*4
	rushing := metrics[MetricRushingYards]*0.1 + metrics[MetricRushingTouchdowns]*6
	receiving := metrics[MetricReceivingYards]*0.1 +
		metrics[MetricReceivingTouchdowns]*6 +
		metrics[MetricReceptions]*profile.ReceptionWeight
	turnovers := metrics[MetricPassingInterceptions]*-2 + metrics[MetricFumblesLost]*-2

	total := Round1(passing + rushing + receiving + turnovers)
	if total < 0 {
		total = 0
	}

	return Line{
		Position:        position,
		PassingPoints:   Round1(passing),
		RushingPoints:   Round1(rushing),
		ReceivingPoints: Round1(receiving),
		TurnoverPoints:  Round1(turnovers),
		FantasyPoints:   total,
	}
}

// FantasyPoints is the shorthand most callers want.
func FantasyPoints(position player.Position, metrics map[string]float64, profile Profile) float64 {
	return Translate(position, metrics, profile).FantasyPoints
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
