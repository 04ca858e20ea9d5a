package lineup

import (
	"strings"
	"testing"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
)

func ownedCard(id, teamID string, contracts int, position player.Position) (string, CardView) {
	return id, CardView{
		Card: card.UserCard{
			ID:                 id,
			TeamID:             teamID,
			RemainingContracts: contracts,
			Status:             card.StatusOwned,
		},
		PlayerPosition: position,
	}
}

func TestValidateSlots_ValidLineup(t *testing.T) {
	cards := map[string]CardView{}
	for _, spec := range []struct {
		id       string
		position player.Position
	}{
		{"uc-qb", player.PositionQuarterback},
		{"uc-rb", player.PositionRunningBack},
		{"uc-wr", player.PositionWideReceiver},
		{"uc-te", player.PositionTightEnd},
		{"uc-flex", player.PositionRunningBack},
	} {
		id, view := ownedCard(spec.id, "team-1", 3, spec.position)
		cards[id] = view
	}

	slots := []Slot{
		{Position: SlotQB, UserCardID: "uc-qb"},
		{Position: SlotRB, UserCardID: "uc-rb"},
		{Position: SlotWR, UserCardID: "uc-wr"},
		{Position: SlotTE, UserCardID: "uc-te"},
		{Position: SlotFlex, UserCardID: "uc-flex"},
		{Position: SlotBench},
	}

	violations := ValidateSlots("team-1", slots, cards, nil)
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}

func TestValidateSlots_PositionMismatch(t *testing.T) {
	id, view := ownedCard("uc-qb", "team-1", 3, player.PositionQuarterback)
	cards := map[string]CardView{id: view}

	violations := ValidateSlots("team-1", []Slot{{Position: SlotRB, UserCardID: "uc-qb"}}, cards, nil)
	if len(violations) != 1 {
		t.Fatalf("expected one violation, got %+v", violations)
	}
	if !strings.Contains(violations[0].Reason, ErrPositionMismatch.Error()) {
		t.Fatalf("unexpected reason: %s", violations[0].Reason)
	}
}

func TestValidateSlots_FlexAcceptsConfiguredSubset(t *testing.T) {
	rbID, rbView := ownedCard("uc-rb", "team-1", 1, player.PositionRunningBack)
	qbID, qbView := ownedCard("uc-qb", "team-1", 1, player.PositionQuarterback)
	cards := map[string]CardView{rbID: rbView, qbID: qbView}

	if v := ValidateSlots("team-1", []Slot{{Position: SlotFlex, UserCardID: "uc-rb"}}, cards, nil); len(v) != 0 {
		t.Fatalf("expected RB to be flex-eligible, got %+v", v)
	}
	if v := ValidateSlots("team-1", []Slot{{Position: SlotFlex, UserCardID: "uc-qb"}}, cards, nil); len(v) != 1 {
		t.Fatalf("expected QB to be rejected from flex, got %+v", v)
	}
}

func TestValidateSlots_DuplicateCardAcrossNonBenchSlots(t *testing.T) {
	id, view := ownedCard("uc-rb", "team-1", 3, player.PositionRunningBack)
	cards := map[string]CardView{id: view}

	slots := []Slot{
		{Position: SlotRB, UserCardID: "uc-rb"},
		{Position: SlotFlex, UserCardID: "uc-rb"},
	}

	violations := ValidateSlots("team-1", slots, cards, nil)
	if len(violations) != 1 || violations[0].Reason != ErrDuplicateCardInSlots.Error() {
		t.Fatalf("expected duplicate-card violation, got %+v", violations)
	}
}

func TestValidateSlots_BenchReuseAllowed(t *testing.T) {
	id, view := ownedCard("uc-rb", "team-1", 3, player.PositionRunningBack)
	cards := map[string]CardView{id: view}

	slots := []Slot{
		{Position: SlotRB, UserCardID: "uc-rb"},
		{Position: SlotBench, UserCardID: "uc-rb"},
	}

	if v := ValidateSlots("team-1", slots, cards, nil); len(v) != 0 {
		t.Fatalf("expected bench reuse to pass, got %+v", v)
	}
}

func TestValidateSlots_ExhaustedContractsAndForeignCards(t *testing.T) {
	usedUpID, usedUpView := ownedCard("uc-used", "team-1", 0, player.PositionRunningBack)
	foreignID, foreignView := ownedCard("uc-foreign", "team-2", 3, player.PositionRunningBack)
	cards := map[string]CardView{usedUpID: usedUpView, foreignID: foreignView}

	slots := []Slot{
		{Position: SlotRB, UserCardID: "uc-used"},
		{Position: SlotFlex, UserCardID: "uc-foreign"},
		{Position: SlotWR, UserCardID: "uc-missing"},
	}

	violations := ValidateSlots("team-1", slots, cards, nil)
	if len(violations) != 3 {
		t.Fatalf("expected three violations, got %+v", violations)
	}
	if violations[0].Reason != ErrCardNotUsable.Error() {
		t.Fatalf("expected contract violation first, got %s", violations[0].Reason)
	}
	if violations[1].Reason != ErrCardNotOwned.Error() || violations[2].Reason != ErrCardNotOwned.Error() {
		t.Fatalf("expected ownership violations, got %+v", violations[1:])
	}
}

func TestValidateSlots_AppliedTokenMustBeUsable(t *testing.T) {
	id, view := ownedCard("uc-rb", "team-1", 3, player.PositionRunningBack)
	cards := map[string]CardView{id: view}
	tokens := map[string]TokenView{
		"ut-spent": {TeamID: "team-1", UsesRemaining: 0},
	}

	slots := []Slot{{Position: SlotRB, UserCardID: "uc-rb", AppliedTokenID: "ut-spent"}}
	violations := ValidateSlots("team-1", slots, cards, tokens)
	if len(violations) != 1 || violations[0].Reason != ErrTokenNotUsable.Error() {
		t.Fatalf("expected token violation, got %+v", violations)
	}
}
