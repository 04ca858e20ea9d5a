package lineup

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
)

var (
	ErrUnknownSlotPosition  = errors.New("unknown roster slot position")
	ErrCardNotOwned         = errors.New("card is not owned by the team")
	ErrCardNotUsable        = errors.New("card has no remaining contracts")
	ErrPositionMismatch     = errors.New("player position not allowed in slot")
	ErrDuplicateCardInSlots = errors.New("card appears in more than one non-bench slot")
	ErrTokenNotUsable       = errors.New("token has no uses remaining")
)

// Violation is one structured slot-level rule failure.
type Violation struct {
	SlotIndex int          `json:"slot_index"`
	Position  SlotPosition `json:"position"`
	Reason    string       `json:"reason"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("slot %d (%s): %s", v.SlotIndex, v.Position, v.Reason)
}

// CardView is the card/player data the validator needs per referenced card.
type CardView struct {
	Card           card.UserCard
	PlayerPosition player.Position
}

// TokenUsable reports uses remaining for an applied token reference.
type TokenView struct {
	TeamID        string
	UsesRemaining int
}

// ValidateSlots checks a full submission against roster rules and returns
// every violation found; it performs no writes. Rules: each slot accepts
// only its designated positions, only owned cards with contracts remaining
// are eligible, and a card may occupy at most one non-bench slot.
func ValidateSlots(teamID string, slots []Slot, cards map[string]CardView, tokens map[string]TokenView) []Violation {
	var violations []Violation
	nonBenchSeen := make(map[string]struct{})

	for i, slot := range slots {
		accepted, ok := AcceptedPositions[slot.Position]
		if !ok {
			violations = append(violations, Violation{SlotIndex: i, Position: slot.Position, Reason: ErrUnknownSlotPosition.Error()})
			continue
		}

		if slot.UserCardID != "" {
			view, found := cards[slot.UserCardID]
			switch {
			case !found || view.Card.TeamID != teamID || view.Card.Status != card.StatusOwned:
				violations = append(violations, Violation{SlotIndex: i, Position: slot.Position, Reason: ErrCardNotOwned.Error()})
			case view.Card.RemainingContracts <= 0:
				violations = append(violations, Violation{SlotIndex: i, Position: slot.Position, Reason: ErrCardNotUsable.Error()})
			default:
				if _, allowed := accepted[view.PlayerPosition]; !allowed {
					violations = append(violations, Violation{
						SlotIndex: i,
						Position:  slot.Position,
						Reason:    fmt.Sprintf("%s: %s", ErrPositionMismatch.Error(), view.PlayerPosition),
					})
				}
				if slot.Position != SlotBench {
					if _, seen := nonBenchSeen[slot.UserCardID]; seen {
						violations = append(violations, Violation{SlotIndex: i, Position: slot.Position, Reason: ErrDuplicateCardInSlots.Error()})
					}
					nonBenchSeen[slot.UserCardID] = struct{}{}
				}
			}
		}

		if slot.AppliedTokenID != "" {
			view, found := tokens[slot.AppliedTokenID]
			if !found || view.TeamID != teamID || view.UsesRemaining <= 0 {
				violations = append(violations, Violation{SlotIndex: i, Position: slot.Position, Reason: ErrTokenNotUsable.Error()})
			}
		}
	}

	return violations
}
