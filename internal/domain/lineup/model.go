package lineup

import (
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
)

// SlotPosition is a roster slot in a weekly lineup.
type SlotPosition string

const (
	SlotQB    SlotPosition = "QB"
	SlotRB    SlotPosition = "RB"
	SlotWR    SlotPosition = "WR"
	SlotTE    SlotPosition = "TE"
	SlotFlex  SlotPosition = "FLEX"
	SlotBench SlotPosition = "BENCH"
)

// AcceptedPositions maps each roster slot to the player positions it takes.
// FLEX accepts a configured subset; BENCH accepts anything.
var AcceptedPositions = map[SlotPosition]map[player.Position]struct{}{
	SlotQB: {player.PositionQuarterback: {}},
	SlotRB: {player.PositionRunningBack: {}},
	SlotWR: {player.PositionWideReceiver: {}},
	SlotTE: {player.PositionTightEnd: {}},
	SlotFlex: {
		player.PositionRunningBack:  {},
		player.PositionWideReceiver: {},
		player.PositionTightEnd:     {},
	},
	SlotBench: {
		player.PositionQuarterback:  {},
		player.PositionRunningBack:  {},
		player.PositionWideReceiver: {},
		player.PositionTightEnd:     {},
		player.PositionKicker:       {},
		player.PositionDefense:      {},
	},
}

// Status transitions draft -> submitted -> scored, one-way.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusScored    Status = "scored"
)

// Slot binds one roster position to an optional owned card and an optional
// applied token.
type Slot struct {
	Position       SlotPosition
	UserCardID     string
	AppliedTokenID string
	Points         float64
}

// Lineup is the one-per-(team, week) weekly submission.
type Lineup struct {
	ID          string
	TeamID      string
	WeekID      string
	Status      Status
	Slots       []Slot
	TotalPoints float64
	SubmittedAt time.Time
	ScoredAt    *time.Time
	UpdatedAt   time.Time
}
