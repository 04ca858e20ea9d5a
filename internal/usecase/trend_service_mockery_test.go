package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
	"github.com/riskibarqy/fantasy-cards/internal/domain/stats"
	"github.com/riskibarqy/fantasy-cards/internal/domain/trend"
	playermock "github.com/riskibarqy/fantasy-cards/internal/mocks/domain/player"
	statsmock "github.com/riskibarqy/fantasy-cards/internal/mocks/domain/stats"
	trendmock "github.com/riskibarqy/fantasy-cards/internal/mocks/domain/trend"
	"github.com/riskibarqy/fantasy-cards/internal/platform/logging"
)

func TestTrendService_RecomputePlayer_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := playermock.NewRepository(t)
	statsRepo := statsmock.NewRepository(t)
	trendRepo := trendmock.NewRepository(t)

	service := NewTrendService(playerRepo, statsRepo, trendRepo, logging.NewNop())
	playerID := "nfl-qb-01"
	season := 2025

	playerRepo.
		On("GetByID", mock.Anything, playerID).
		Return(player.Player{ID: playerID, Position: player.PositionQuarterback}, true, nil).
		Once()
	statsRepo.
		On("ListByPlayerSeason", mock.Anything, playerID, season).
		Return([]stats.PlayerGameStats{
			{
				PlayerID: playerID,
				WeekID:   "2025-w01",
				Metrics: map[string]float64{
					stats.MetricPassingYards:      300,
					stats.MetricPassingTouchdowns: 2,
				},
				Finalized: true,
			},
		}, nil).
		Once()
	trendRepo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(item trend.Trending) bool {
			return item.PlayerID == playerID && item.Season == season && item.Direction == trend.DirectionUp
		})).
		Return(nil).
		Once()

	got, err := service.RecomputePlayer(ctx, playerID, season)
	if err != nil {
		t.Fatalf("recompute player: %v", err)
	}
	// One 20-point game against the QB baseline of 18: trending up.
	if got.Direction != trend.DirectionUp {
		t.Fatalf("unexpected direction: got=%s", got.Direction)
	}
	if got.Strength != 11 {
		t.Fatalf("unexpected strength: got=%d want=11", got.Strength)
	}
	if got.SeasonAvg != 20 {
		t.Fatalf("unexpected season avg: got=%v want=20", got.SeasonAvg)
	}
	if got.GamesPlayed != 1 {
		t.Fatalf("unexpected games played: got=%d want=1", got.GamesPlayed)
	}
}

func TestTrendService_RecomputePlayer_SkipsUnfinalizedLinesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := playermock.NewRepository(t)
	statsRepo := statsmock.NewRepository(t)
	trendRepo := trendmock.NewRepository(t)

	service := NewTrendService(playerRepo, statsRepo, trendRepo, logging.NewNop())
	playerID := "nfl-rb-01"
	season := 2025

	playerRepo.
		On("GetByID", mock.Anything, playerID).
		Return(player.Player{ID: playerID, Position: player.PositionRunningBack}, true, nil).
		Once()
	statsRepo.
		On("ListByPlayerSeason", mock.Anything, playerID, season).
		Return([]stats.PlayerGameStats{
			{PlayerID: playerID, WeekID: "2025-w02", Metrics: map[string]float64{stats.MetricRushingYards: 80}, Finalized: false},
		}, nil).
		Once()
	trendRepo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(item trend.Trending) bool {
			return item.GamesPlayed == 0 && item.Direction == trend.DirectionStable
		})).
		Return(nil).
		Once()

	got, err := service.RecomputePlayer(ctx, playerID, season)
	if err != nil {
		t.Fatalf("recompute player: %v", err)
	}
	if got.GamesPlayed != 0 {
		t.Fatalf("expected unfinalized line to be skipped, got %d games", got.GamesPlayed)
	}
}

func TestTrendService_RecomputePlayer_PlayerNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := playermock.NewRepository(t)
	statsRepo := statsmock.NewRepository(t)
	trendRepo := trendmock.NewRepository(t)

	service := NewTrendService(playerRepo, statsRepo, trendRepo, logging.NewNop())

	playerRepo.
		On("GetByID", mock.Anything, "missing-player").
		Return(player.Player{}, false, nil).
		Once()

	_, err := service.RecomputePlayer(ctx, "missing-player", 2025)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
