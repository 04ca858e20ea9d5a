package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/stats"
	"github.com/riskibarqy/fantasy-cards/internal/domain/trend"
	"github.com/riskibarqy/fantasy-cards/internal/infrastructure/repository/memory"
)

func newTrendFixture(t *testing.T, lines []stats.PlayerGameStats) (*TrendService, *memory.TrendRepository) {
	t.Helper()

	trendRepo := memory.NewTrendRepository()
	svc := NewTrendService(
		memory.NewPlayerRepository(memory.SeedPlayers()),
		memory.NewStatsRepository(memory.SeedWeeks(), lines),
		trendRepo,
		nil,
	)
	svc.now = func() time.Time { return time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC) }
	return svc, trendRepo
}

func rushingLine(playerID, weekID string, yards float64) stats.PlayerGameStats {
	return stats.PlayerGameStats{
		PlayerID:  playerID,
		WeekID:    weekID,
		Finalized: true,
		Metrics:   map[string]float64{stats.MetricRushingYards: yards},
	}
}

func TestTrendService_RecomputePlayer(t *testing.T) {
	svc, trendRepo := newTrendFixture(t, []stats.PlayerGameStats{
		rushingLine("nfl-rb-01", "2025-w01", 60),  // 6.0 pts
		rushingLine("nfl-rb-01", "2025-w02", 80),  // 8.0 pts
		rushingLine("nfl-rb-01", "2025-w03", 150), // 15.0 pts
		rushingLine("nfl-rb-01", "2025-w04", 180), // 18.0 pts
	})

	computed, err := svc.RecomputePlayer(t.Context(), "nfl-rb-01", 2025)
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	if computed.Direction != trend.DirectionUp {
		t.Fatalf("expected upward trend, got %s", computed.Direction)
	}
	if computed.GamesPlayed != 4 {
		t.Fatalf("unexpected games played: %d", computed.GamesPlayed)
	}
	// Season avg 11.75, last-3 avg (18+15+8)/3 = 13.666..
	if computed.SeasonAvg != 11.75 {
		t.Fatalf("unexpected season avg: %v", computed.SeasonAvg)
	}

	stored, ok, err := trendRepo.Get(t.Context(), "nfl-rb-01", 2025)
	if err != nil || !ok {
		t.Fatalf("trending row missing: ok=%v err=%v", ok, err)
	}
	if stored.Direction != computed.Direction || stored.Strength != computed.Strength {
		t.Fatalf("stored row differs: %+v != %+v", stored, computed)
	}
}

func TestTrendService_RecomputePlayer_IgnoresUnfinalizedLines(t *testing.T) {
	pending := rushingLine("nfl-rb-01", "2025-w02", 200)
	pending.Finalized = false

	svc, _ := newTrendFixture(t, []stats.PlayerGameStats{
		rushingLine("nfl-rb-01", "2025-w01", 60),
		pending,
	})

	computed, err := svc.RecomputePlayer(t.Context(), "nfl-rb-01", 2025)
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if computed.GamesPlayed != 1 {
		t.Fatalf("unfinalized line counted: %d games", computed.GamesPlayed)
	}
}

func TestTrendService_RecomputePlayer_UnknownPlayer(t *testing.T) {
	svc, _ := newTrendFixture(t, nil)

	_, err := svc.RecomputePlayer(t.Context(), "nfl-ghost", 2025)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTrendService_RecomputeSeason(t *testing.T) {
	svc, trendRepo := newTrendFixture(t, []stats.PlayerGameStats{
		rushingLine("nfl-rb-01", "2025-w01", 60),
		rushingLine("nfl-rb-02", "2025-w01", 90),
		rushingLine("nfl-qb-01", "2025-w01", 20),
	})

	result, err := svc.RecomputeSeason(t.Context(), 2025, 4)
	if err != nil {
		t.Fatalf("season recompute failed: %v", err)
	}
	if result.PlayerCount != 3 || result.UpdatedCount != 3 || result.FailedCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	rows, err := trendRepo.ListBySeason(t.Context(), 2025)
	if err != nil {
		t.Fatalf("list season failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("unexpected row count: %d", len(rows))
	}
}

func TestTrendService_GetTrending_Miss(t *testing.T) {
	svc, _ := newTrendFixture(t, nil)

	_, err := svc.GetTrending(t.Context(), "nfl-rb-01", 2025)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
