package trend

import "time"

// Direction of a player's recent form against their baseline.
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// Trending is a derived, recomputable cache row keyed by (player, season).
// Recomputation fully overwrites the prior row, never merges.
type Trending struct {
	PlayerID    string
	Season      int
	Direction   Direction
	Strength    int
	SeasonAvg   float64
	Last3Avg    float64
	GamesPlayed int
	ComputedAt  time.Time
}
