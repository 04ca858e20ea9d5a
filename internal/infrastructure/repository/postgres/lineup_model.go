package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-cards/internal/domain/lineup"
)

type lineupTableModel struct {
	ID          string     `db:"id"`
	TeamID      string     `db:"team_id"`
	WeekID      string     `db:"week_id"`
	Status      string     `db:"status"`
	Slots       []byte     `db:"slots"`
	TotalPoints float64    `db:"total_points"`
	SubmittedAt time.Time  `db:"submitted_at"`
	ScoredAt    *time.Time `db:"scored_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type lineupSlotJSON struct {
	Position       string  `json:"position"`
	UserCardID     string  `json:"user_card_id,omitempty"`
	AppliedTokenID string  `json:"applied_token_id,omitempty"`
	Points         float64 `json:"points"`
}

func lineupFromRow(row lineupTableModel) (lineup.Lineup, error) {
	var slots []lineupSlotJSON
	if err := sonic.Unmarshal(row.Slots, &slots); err != nil {
		return lineup.Lineup{}, fmt.Errorf("unmarshal lineup slots %s: %w", row.ID, err)
	}

	out := lineup.Lineup{
		ID:          row.ID,
		TeamID:      row.TeamID,
		WeekID:      row.WeekID,
		Status:      lineup.Status(row.Status),
		TotalPoints: row.TotalPoints,
		SubmittedAt: row.SubmittedAt,
		ScoredAt:    row.ScoredAt,
		UpdatedAt:   row.UpdatedAt,
	}
	out.Slots = make([]lineup.Slot, 0, len(slots))
	for _, slot := range slots {
		out.Slots = append(out.Slots, lineup.Slot{
			Position:       lineup.SlotPosition(slot.Position),
			UserCardID:     slot.UserCardID,
			AppliedTokenID: slot.AppliedTokenID,
			Points:         slot.Points,
		})
	}
	return out, nil
}

func lineupSlotsToJSON(slots []lineup.Slot) ([]byte, error) {
	encoded := make([]lineupSlotJSON, 0, len(slots))
	for _, slot := range slots {
		encoded = append(encoded, lineupSlotJSON{
			Position:       string(slot.Position),
			UserCardID:     slot.UserCardID,
			AppliedTokenID: slot.AppliedTokenID,
			Points:         slot.Points,
		})
	}
	return sonic.Marshal(encoded)
}
