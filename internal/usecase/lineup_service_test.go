package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-cards/internal/domain/team"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	"github.com/riskibarqy/fantasy-cards/internal/infrastructure/repository/memory"
)

type lineupFixture struct {
	svc        *LineupService
	lineups    *memory.LineupRepository
	userCards  *memory.UserCardRepository
	userTokens *memory.UserTokenRepository
}

// newLineupFixture wires a team that owns one card per seeded catalog entry
// (user card ID "uc-<catalog ID>") and a clock set before the week-1 lock.
func newLineupFixture(t *testing.T) *lineupFixture {
	t.Helper()

	teams := memory.NewTeamRepository([]team.Team{
		{ID: "team-1", UserID: "user-1", Name: "Gridiron Gang", Coins: 500, Active: true},
	})
	userCards := memory.NewUserCardRepository()
	userTokens := memory.NewUserTokenRepository()
	lineups := memory.NewLineupRepository()

	now := time.Date(2025, 9, 5, 12, 0, 0, 0, time.UTC)
	owned := make([]card.UserCard, 0)
	for _, template := range memory.SeedCards() {
		owned = append(owned, card.NewUserCard("uc-"+template.ID, "team-1", template, now))
	}
	if err := userCards.CreateBatch(t.Context(), owned); err != nil {
		t.Fatalf("seed user cards: %v", err)
	}
	if err := userTokens.CreateBatch(t.Context(), []token.UserToken{
		{ID: "ut-1", TeamID: "team-1", TokenTypeID: "token-century-rush", UsesRemaining: 3, AcquiredAt: now},
		{ID: "ut-spent", TeamID: "team-1", TokenTypeID: "token-century-rush", UsesRemaining: 0, AcquiredAt: now},
	}); err != nil {
		t.Fatalf("seed user tokens: %v", err)
	}

	svc := NewLineupService(
		teams,
		memory.NewWeekRepository(memory.SeedWeeks()),
		lineups,
		userCards,
		memory.NewCardCatalogRepository(memory.SeedCards()),
		memory.NewPlayerRepository(memory.SeedPlayers()),
		userTokens,
		&seqIDGenerator{},
		nil,
	)
	svc.now = func() time.Time { return now }

	return &lineupFixture{svc: svc, lineups: lineups, userCards: userCards, userTokens: userTokens}
}

func validSlots() []lineup.Slot {
	return []lineup.Slot{
		{Position: lineup.SlotQB, UserCardID: "uc-card-qb-01"},
		{Position: lineup.SlotRB, UserCardID: "uc-card-rb-01"},
		{Position: lineup.SlotWR, UserCardID: "uc-card-wr-01"},
		{Position: lineup.SlotTE, UserCardID: "uc-card-te-01"},
		{Position: lineup.SlotFlex, UserCardID: "uc-card-rb-02", AppliedTokenID: "ut-1"},
		{Position: lineup.SlotBench, UserCardID: "uc-card-wr-02"},
	}
}

func TestLineupService_SubmitLineup(t *testing.T) {
	fx := newLineupFixture(t)

	submitted, err := fx.svc.SubmitLineup(t.Context(), "user-1", "team-1", "2025-w01", validSlots())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if submitted.Status != lineup.StatusSubmitted {
		t.Fatalf("unexpected status: %s", submitted.Status)
	}

	stored, ok, err := fx.lineups.GetByTeamAndWeek(t.Context(), "team-1", "2025-w01")
	if err != nil || !ok {
		t.Fatalf("stored lineup missing: ok=%v err=%v", ok, err)
	}
	if len(stored.Slots) != 6 {
		t.Fatalf("unexpected slot count: %d", len(stored.Slots))
	}
}

func TestLineupService_SubmitLineup_ResubmissionReplaces(t *testing.T) {
	fx := newLineupFixture(t)

	first, err := fx.svc.SubmitLineup(t.Context(), "user-1", "team-1", "2025-w01", validSlots())
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	replacement := validSlots()
	replacement[2].UserCardID = "uc-card-wr-03"
	second, err := fx.svc.SubmitLineup(t.Context(), "user-1", "team-1", "2025-w01", replacement)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("resubmission created a new lineup: %s != %s", second.ID, first.ID)
	}
	stored, _, _ := fx.lineups.GetByTeamAndWeek(t.Context(), "team-1", "2025-w01")
	if stored.Slots[2].UserCardID != "uc-card-wr-03" {
		t.Fatalf("resubmission did not replace slots: %s", stored.Slots[2].UserCardID)
	}
}

func TestLineupService_SubmitLineup_LockedWeek(t *testing.T) {
	fx := newLineupFixture(t)
	// Week 1 locks Sunday 17:00 UTC.
	fx.svc.now = func() time.Time { return time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC) }

	_, err := fx.svc.SubmitLineup(t.Context(), "user-1", "team-1", "2025-w01", validSlots())
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState at lock time, got %v", err)
	}
}

func TestLineupService_SubmitLineup_CollectsViolations(t *testing.T) {
	fx := newLineupFixture(t)

	slots := []lineup.Slot{
		{Position: lineup.SlotQB, UserCardID: "uc-card-rb-01"},                          // position mismatch
		{Position: lineup.SlotRB, UserCardID: "uc-card-rb-02"},
		{Position: lineup.SlotWR, UserCardID: "uc-missing"},                             // not owned
		{Position: lineup.SlotFlex, UserCardID: "uc-card-rb-02"},                        // duplicate non-bench
		{Position: lineup.SlotTE, UserCardID: "uc-card-te-01", AppliedTokenID: "ut-spent"}, // spent token
	}

	_, err := fx.svc.SubmitLineup(t.Context(), "user-1", "team-1", "2025-w01", slots)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(validationErr.Violations) != 4 {
		t.Fatalf("expected 4 violations, got %d: %+v", len(validationErr.Violations), validationErr.Violations)
	}

	// Nothing persisted on validation failure.
	if _, ok, _ := fx.lineups.GetByTeamAndWeek(t.Context(), "team-1", "2025-w01"); ok {
		t.Fatal("invalid submission was persisted")
	}
}

func TestLineupService_SubmitLineup_BenchAcceptsDuplicates(t *testing.T) {
	fx := newLineupFixture(t)

	slots := validSlots()
	slots = append(slots, lineup.Slot{Position: lineup.SlotBench, UserCardID: "uc-card-rb-01"})

	if _, err := fx.svc.SubmitLineup(t.Context(), "user-1", "team-1", "2025-w01", slots); err != nil {
		t.Fatalf("bench reuse rejected: %v", err)
	}
}

func TestLineupService_SubmitLineup_UnknownWeek(t *testing.T) {
	fx := newLineupFixture(t)

	_, err := fx.svc.SubmitLineup(t.Context(), "user-1", "team-1", "2030-w99", validSlots())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
