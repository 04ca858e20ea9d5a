package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-cards/internal/domain/stats"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	"github.com/riskibarqy/fantasy-cards/internal/infrastructure/repository/memory"
)

type scoringFixture struct {
	svc        *ScoringService
	lineups    *memory.LineupRepository
	userCards  *memory.UserCardRepository
	userTokens *memory.UserTokenRepository
	stats      *memory.StatsRepository
}

// newScoringFixture seeds one submitted week-1 lineup: a QB line worth 18.0
// points and an RB line worth 18.0 with a +5 rushing token, plus a bench
// card that must stay untouched. The clock sits after the week-1 lock.
func newScoringFixture(t *testing.T) *scoringFixture {
	t.Helper()

	now := time.Date(2025, 9, 8, 9, 0, 0, 0, time.UTC)
	acquired := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	catalog := make(map[string]card.Card)
	for _, template := range memory.SeedCards() {
		catalog[template.ID] = template
	}

	userCards := memory.NewUserCardRepository()
	if err := userCards.CreateBatch(t.Context(), []card.UserCard{
		card.NewUserCard("uc-qb", "team-1", catalog["card-qb-01"], acquired),
		card.NewUserCard("uc-rb", "team-1", catalog["card-rb-01"], acquired),
		card.NewUserCard("uc-bench", "team-1", catalog["card-wr-02"], acquired),
	}); err != nil {
		t.Fatalf("seed user cards: %v", err)
	}

	userTokens := memory.NewUserTokenRepository()
	if err := userTokens.CreateBatch(t.Context(), []token.UserToken{
		{ID: "ut-rush", TeamID: "team-1", TokenTypeID: "token-century-rush", UsesRemaining: 3, AcquiredAt: acquired},
	}); err != nil {
		t.Fatalf("seed user tokens: %v", err)
	}

	lineups := memory.NewLineupRepository()
	if err := lineups.Upsert(t.Context(), lineup.Lineup{
		ID:     "lu-1",
		TeamID: "team-1",
		WeekID: "2025-w01",
		Status: lineup.StatusSubmitted,
		Slots: []lineup.Slot{
			{Position: lineup.SlotQB, UserCardID: "uc-qb"},
			{Position: lineup.SlotRB, UserCardID: "uc-rb", AppliedTokenID: "ut-rush"},
			{Position: lineup.SlotBench, UserCardID: "uc-bench"},
		},
		SubmittedAt: acquired,
		UpdatedAt:   acquired,
	}); err != nil {
		t.Fatalf("seed lineup: %v", err)
	}

	win := token.ResultWin
	statsRepo := memory.NewStatsRepository(memory.SeedWeeks(), []stats.PlayerGameStats{
		{
			PlayerID: "nfl-qb-01", WeekID: "2025-w01", GameRefID: 900, Finalized: true,
			Metrics: map[string]float64{
				stats.MetricPassingYards:         300,
				stats.MetricPassingTouchdowns:    2,
				stats.MetricPassingInterceptions: 1,
			},
			TeamResult: &win,
		},
		{
			PlayerID: "nfl-rb-01", WeekID: "2025-w01", GameRefID: 900, Finalized: true,
			Metrics: map[string]float64{
				stats.MetricRushingYards:      120,
				stats.MetricRushingTouchdowns: 1,
			},
			TeamResult: &win,
		},
	})

	svc := NewScoringService(
		memory.NewWeekRepository(memory.SeedWeeks()),
		lineups,
		userCards,
		memory.NewPlayerRepository(memory.SeedPlayers()),
		statsRepo,
		userTokens,
		memory.NewTokenCatalogRepository(memory.SeedTokenTypes()),
		memory.NewUnitOfWork(lineups, userCards, userTokens),
		nil,
	)
	svc.now = func() time.Time { return now }

	return &scoringFixture{svc: svc, lineups: lineups, userCards: userCards, userTokens: userTokens, stats: statsRepo}
}

func TestScoringService_ScoreWeek(t *testing.T) {
	fx := newScoringFixture(t)

	result, err := fx.svc.ScoreWeek(t.Context(), ScoreWeekInput{WeekID: "2025-w01"})
	if err != nil {
		t.Fatalf("score week failed: %v", err)
	}
	if result.ScoredCount != 1 || result.FailedCount != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	scored, ok, err := fx.lineups.GetByTeamAndWeek(t.Context(), "team-1", "2025-w01")
	if err != nil || !ok {
		t.Fatalf("scored lineup missing: ok=%v err=%v", ok, err)
	}
	if scored.Status != lineup.StatusScored {
		t.Fatalf("lineup not scored: %s", scored.Status)
	}

	// QB: 300*0.04 + 2*4 - 2 = 18.0
	if scored.Slots[0].Points != 18.0 {
		t.Fatalf("unexpected QB points: %v", scored.Slots[0].Points)
	}
	// RB: 120*0.1 + 6 = 18.0, +5 from the rushing token.
	if scored.Slots[1].Points != 23.0 {
		t.Fatalf("unexpected RB points: %v", scored.Slots[1].Points)
	}
	if scored.Slots[2].Points != 0 {
		t.Fatalf("bench slot earned points: %v", scored.Slots[2].Points)
	}
	if scored.TotalPoints != 41.0 {
		t.Fatalf("unexpected total: %v", scored.TotalPoints)
	}
}

func TestScoringService_ScoreWeek_SideEffects(t *testing.T) {
	fx := newScoringFixture(t)

	if _, err := fx.svc.ScoreWeek(t.Context(), ScoreWeekInput{WeekID: "2025-w01"}); err != nil {
		t.Fatalf("score week failed: %v", err)
	}

	qb, _, _ := fx.userCards.GetByID(t.Context(), "uc-qb")
	if qb.RemainingContracts != 7 {
		t.Fatalf("QB contract not consumed: %d", qb.RemainingContracts)
	}
	if qb.TotalFantasyPoints != 18.0 {
		t.Fatalf("QB accumulator wrong: %v", qb.TotalFantasyPoints)
	}

	rb, _, _ := fx.userCards.GetByID(t.Context(), "uc-rb")
	if rb.TotalFantasyPoints != 23.0 {
		t.Fatalf("RB accumulator wrong: %v", rb.TotalFantasyPoints)
	}

	// The bench card neither played nor burned a contract.
	bench, _, _ := fx.userCards.GetByID(t.Context(), "uc-bench")
	if bench.RemainingContracts != 10 || bench.TotalFantasyPoints != 0 {
		t.Fatalf("bench card touched: %+v", bench)
	}

	applied, _, _ := fx.userTokens.GetByID(t.Context(), "ut-rush")
	if applied.UsesRemaining != 2 {
		t.Fatalf("token use not consumed once: %d", applied.UsesRemaining)
	}
}

func TestScoringService_ScoreWeek_RerunScoresNothing(t *testing.T) {
	fx := newScoringFixture(t)

	if _, err := fx.svc.ScoreWeek(t.Context(), ScoreWeekInput{WeekID: "2025-w01"}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := fx.svc.ScoreWeek(t.Context(), ScoreWeekInput{WeekID: "2025-w01"})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.LineupCount != 0 || second.ScoredCount != 0 {
		t.Fatalf("second run picked up lineups: %+v", second)
	}

	applied, _, _ := fx.userTokens.GetByID(t.Context(), "ut-rush")
	if applied.UsesRemaining != 2 {
		t.Fatalf("rerun consumed another use: %d", applied.UsesRemaining)
	}
}

func TestScoringService_ScoreWeek_EvolutionAdvancesTier(t *testing.T) {
	fx := newScoringFixture(t)

	// Pre-load the RB card so this week's 23.0 crosses the first
	// threshold at 40.
	before, _, _ := fx.userCards.GetByID(t.Context(), "uc-rb")
	if err := fx.userCards.ApplyEvolution(t.Context(), "uc-rb", card.EvolutionResult{
		TotalFantasyPoints: 30,
		Rarity:             before.CurrentRarity,
		RemainingContracts: before.RemainingContracts,
		CurrentSellValue:   before.CurrentSellValue,
	}); err != nil {
		t.Fatalf("preload accumulator: %v", err)
	}

	if _, err := fx.svc.ScoreWeek(t.Context(), ScoreWeekInput{WeekID: "2025-w01"}); err != nil {
		t.Fatalf("score week failed: %v", err)
	}

	rb, _, _ := fx.userCards.GetByID(t.Context(), "uc-rb")
	if rb.CurrentRarity != card.RarityRare {
		t.Fatalf("card did not evolve: %s", rb.CurrentRarity)
	}
	if rb.TotalFantasyPoints != 53.0 {
		t.Fatalf("unexpected accumulator: %v", rb.TotalFantasyPoints)
	}
	// Evolution scales first, then the played contract burns.
	if rb.RemainingContracts != 8 {
		t.Fatalf("unexpected contracts after evolution: %d", rb.RemainingContracts)
	}
	if rb.CurrentSellValue != 300 {
		t.Fatalf("unexpected sell value after evolution: %d", rb.CurrentSellValue)
	}
}

func TestScoringService_ScoreWeek_SoldCardDoesNotPlay(t *testing.T) {
	fx := newScoringFixture(t)

	// A sale between submission and scoring is legal; the sold record
	// must come out of scoring untouched.
	if err := fx.userCards.MarkSold(t.Context(), "uc-qb"); err != nil {
		t.Fatalf("sell QB card: %v", err)
	}
	sold, _, _ := fx.userCards.GetByID(t.Context(), "uc-qb")

	result, err := fx.svc.ScoreWeek(t.Context(), ScoreWeekInput{WeekID: "2025-w01"})
	if err != nil {
		t.Fatalf("score week failed: %v", err)
	}
	if result.ScoredCount != 1 || result.FailedCount != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	scored, _, _ := fx.lineups.GetByTeamAndWeek(t.Context(), "team-1", "2025-w01")
	if scored.Slots[0].Points != 0 {
		t.Fatalf("sold card's slot earned points: %v", scored.Slots[0].Points)
	}
	if scored.TotalPoints != 23.0 {
		t.Fatalf("unexpected total without the sold card: %v", scored.TotalPoints)
	}

	after, _, _ := fx.userCards.GetByID(t.Context(), "uc-qb")
	if after.Status != card.StatusSold {
		t.Fatalf("sold card status changed: %s", after.Status)
	}
	if after.RemainingContracts != sold.RemainingContracts ||
		after.TotalFantasyPoints != sold.TotalFantasyPoints ||
		after.CurrentSellValue != sold.CurrentSellValue ||
		after.CurrentRarity != sold.CurrentRarity {
		t.Fatalf("sold card mutated by scoring: before=%+v after=%+v", sold, after)
	}
}

func TestScoringService_ScoreWeek_WaitsForFinalizedStats(t *testing.T) {
	fx := newScoringFixture(t)

	// The RB game is still in progress when the job fires.
	line, _, _ := fx.stats.GetByPlayerAndWeek(t.Context(), "nfl-rb-01", "2025-w01")
	inProgress := line
	inProgress.Finalized = false
	if err := fx.stats.Put(t.Context(), inProgress); err != nil {
		t.Fatalf("downgrade RB line: %v", err)
	}

	result, err := fx.svc.ScoreWeek(t.Context(), ScoreWeekInput{WeekID: "2025-w01"})
	if err != nil {
		t.Fatalf("score week failed: %v", err)
	}
	if result.FailedCount != 1 || result.ScoredCount != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	pending, _, _ := fx.lineups.GetByTeamAndWeek(t.Context(), "team-1", "2025-w01")
	if pending.Status != lineup.StatusSubmitted {
		t.Fatalf("lineup left status %s; a rerun can never rescue it", pending.Status)
	}

	// Nothing was burned by the failed attempt.
	qb, _, _ := fx.userCards.GetByID(t.Context(), "uc-qb")
	if qb.RemainingContracts != 8 || qb.TotalFantasyPoints != 0 {
		t.Fatalf("failed run touched QB card: %+v", qb)
	}
	applied, _, _ := fx.userTokens.GetByID(t.Context(), "ut-rush")
	if applied.UsesRemaining != 3 {
		t.Fatalf("failed run consumed token use: %d", applied.UsesRemaining)
	}

	// Stats land, the rerun scores the lineup normally.
	if err := fx.stats.Put(t.Context(), line); err != nil {
		t.Fatalf("restore RB line: %v", err)
	}
	rerun, err := fx.svc.ScoreWeek(t.Context(), ScoreWeekInput{WeekID: "2025-w01"})
	if err != nil {
		t.Fatalf("rerun failed: %v", err)
	}
	if rerun.ScoredCount != 1 {
		t.Fatalf("rerun did not score the lineup: %+v", rerun)
	}
	scored, _, _ := fx.lineups.GetByTeamAndWeek(t.Context(), "team-1", "2025-w01")
	if scored.TotalPoints != 41.0 {
		t.Fatalf("unexpected total after rerun: %v", scored.TotalPoints)
	}
}

func TestScoringService_ScoreWeek_UnlockedWeek(t *testing.T) {
	fx := newScoringFixture(t)
	fx.svc.now = func() time.Time { return time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC) }

	_, err := fx.svc.ScoreWeek(t.Context(), ScoreWeekInput{WeekID: "2025-w01"})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}
