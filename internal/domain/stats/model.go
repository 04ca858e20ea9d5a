package stats

import (
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
)

// Metric names in a game line. Missing metrics read as 0.
const (
	MetricPassingYards         = "passing_yards"
	MetricPassingTouchdowns    = "passing_touchdowns"
	MetricPassingInterceptions = "passing_interceptions"
	MetricRushingYards         = "rushing_yards"
	MetricRushingTouchdowns    = "rushing_touchdowns"
	MetricReceivingYards       = "receiving_yards"
	MetricReceivingTouchdowns  = "receiving_touchdowns"
	MetricReceptions           = "receptions"
	MetricFumblesLost          = "fumbles_lost"
)

// PlayerGameStats is one player's line for one game. The stats collaborator
// populates these; the core treats finalized=false lines as not yet
// eligible for scoring.
type PlayerGameStats struct {
	PlayerID   string
	WeekID     string
	GameRefID  int64
	Metrics    map[string]float64
	TeamResult *token.GameResult
	Finalized  bool
	PlayedAt   time.Time
}
