package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
	"github.com/riskibarqy/fantasy-cards/internal/domain/stats"
	"github.com/riskibarqy/fantasy-cards/internal/domain/trend"
	"github.com/riskibarqy/fantasy-cards/internal/platform/logging"
)

const defaultTrendWorkers = 16

// TrendService maintains the per-player trending cache from finalized game
// lines. Recomputation is read-compute-replace; it never touches economy
// state.
type TrendService struct {
	playerRepo player.Repository
	statsRepo  stats.Repository
	trendRepo  trend.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewTrendService(
	playerRepo player.Repository,
	statsRepo stats.Repository,
	trendRepo trend.Repository,
	logger *logging.Logger,
) *TrendService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TrendService{
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		trendRepo:  trendRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// RecomputePlayer rebuilds one player's trending row for the season.
func (s *TrendService) RecomputePlayer(ctx context.Context, playerID string, season int) (trend.Trending, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrendService.RecomputePlayer")
	defer span.End()

	if playerID == "" || season <= 0 {
		return trend.Trending{}, fmt.Errorf("%w: player_id and season are required", ErrInvalidInput)
	}

	subject, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return trend.Trending{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return trend.Trending{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	computed, err := s.computeTrending(ctx, subject, season)
	if err != nil {
		return trend.Trending{}, err
	}
	if err := s.trendRepo.Upsert(ctx, computed); err != nil {
		return trend.Trending{}, fmt.Errorf("store trending: %w", err)
	}
	return computed, nil
}

type RecomputeSeasonResult struct {
	Season       int `json:"season"`
	PlayerCount  int `json:"player_count"`
	UpdatedCount int `json:"updated_count"`
	FailedCount  int `json:"failed_count"`
}

// RecomputeSeason rebuilds trending for every player with at least one game
// line in the season. Players are independent, so failures are counted and
// logged instead of aborting the batch.
func (s *TrendService) RecomputeSeason(ctx context.Context, season, maxWorkers int) (RecomputeSeasonResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrendService.RecomputeSeason")
	defer span.End()

	if season <= 0 {
		return RecomputeSeasonResult{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	playerIDs, err := s.statsRepo.ListPlayerIDsBySeason(ctx, season)
	if err != nil {
		return RecomputeSeasonResult{}, fmt.Errorf("list season players: %w", err)
	}

	workerCount := maxWorkers
	if workerCount <= 0 {
		workerCount = defaultTrendWorkers
	}

	var updatedCount atomic.Int32
	var failedCount atomic.Int32

	workers := pool.New().WithMaxGoroutines(workerCount)
	for _, playerID := range playerIDs {
		playerID := playerID
		workers.Go(func() {
			if _, err := s.RecomputePlayer(ctx, playerID, season); err != nil {
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "trend recompute failed",
					"player_id", playerID,
					"season", season,
					"error", err,
				)
				return
			}
			updatedCount.Add(1)
		})
	}
	workers.Wait()

	result := RecomputeSeasonResult{
		Season:       season,
		PlayerCount:  len(playerIDs),
		UpdatedCount: int(updatedCount.Load()),
		FailedCount:  int(failedCount.Load()),
	}
	s.logger.InfoContext(ctx, "season trend recompute finished",
		"season", season,
		"players", result.PlayerCount,
		"updated", result.UpdatedCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

// GetTrending returns the cached trending row for a player.
func (s *TrendService) GetTrending(ctx context.Context, playerID string, season int) (trend.Trending, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrendService.GetTrending")
	defer span.End()

	item, exists, err := s.trendRepo.Get(ctx, playerID, season)
	if err != nil {
		return trend.Trending{}, fmt.Errorf("get trending: %w", err)
	}
	if !exists {
		return trend.Trending{}, fmt.Errorf("%w: no trending for player %s season %d", ErrNotFound, playerID, season)
	}
	return item, nil
}

// ListTrending returns every cached trending row for the season.
func (s *TrendService) ListTrending(ctx context.Context, season int) ([]trend.Trending, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrendService.ListTrending")
	defer span.End()

	items, err := s.trendRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list trending: %w", err)
	}
	return items, nil
}

func (s *TrendService) computeTrending(ctx context.Context, subject player.Player, season int) (trend.Trending, error) {
	lines, err := s.statsRepo.ListByPlayerSeason(ctx, subject.ID, season)
	if err != nil {
		return trend.Trending{}, fmt.Errorf("list game lines: %w", err)
	}

	gamePoints := make([]float64, 0, len(lines))
	for _, line := range lines {
		if !line.Finalized {
			continue
		}
		gamePoints = append(gamePoints, stats.FantasyPoints(subject.Position, line.Metrics, stats.ProfileWeekly))
	}

	computed := trend.Analyze(subject.Position, gamePoints)
	computed.PlayerID = subject.ID
	computed.Season = season
	computed.ComputedAt = s.now().UTC()
	return computed, nil
}
