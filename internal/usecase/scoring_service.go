package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-cards/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
	"github.com/riskibarqy/fantasy-cards/internal/domain/stats"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	"github.com/riskibarqy/fantasy-cards/internal/domain/week"
	"github.com/riskibarqy/fantasy-cards/internal/platform/logging"
)

const defaultScoringWorkers = 8

type ScoreWeekInput struct {
	WeekID     string
	MaxWorkers int
}

type ScoreWeekResult struct {
	WeekID       string            `json:"week_id"`
	LineupCount  int               `json:"lineup_count"`
	ScoredCount  int               `json:"scored_count"`
	FailedCount  int               `json:"failed_count"`
	SkippedCount int               `json:"skipped_count"`
	WorkerCount  int               `json:"worker_count"`
	Lineups      []ScoredLineupRow `json:"lineups"`
}

type ScoredLineupRow struct {
	LineupID    string  `json:"lineup_id"`
	TeamID      string  `json:"team_id"`
	Status      string  `json:"status"`
	TotalPoints float64 `json:"total_points"`
	Message     string  `json:"message,omitempty"`
	DurationMs  int64   `json:"duration_ms"`
}

const (
	scoreStatusScored  = "scored"
	scoreStatusFailed  = "failed"
	scoreStatusSkipped = "skipped"
)

// ScoringService settles a locked week. Each lineup is scored inside its
// own unit of work, so one failing lineup never blocks or corrupts the
// rest of the batch.
type ScoringService struct {
	weekRepo      week.Repository
	lineupRepo    lineup.Repository
	userCardRepo  card.UserCardRepository
	playerRepo    player.Repository
	statsRepo     stats.Repository
	userTokenRepo token.UserTokenRepository
	tokenCatalog  token.CatalogRepository
	uow           ledger.UnitOfWork
	logger        *logging.Logger
	now           func() time.Time
}

func NewScoringService(
	weekRepo week.Repository,
	lineupRepo lineup.Repository,
	userCardRepo card.UserCardRepository,
	playerRepo player.Repository,
	statsRepo stats.Repository,
	userTokenRepo token.UserTokenRepository,
	tokenCatalog token.CatalogRepository,
	uow ledger.UnitOfWork,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		weekRepo:      weekRepo,
		lineupRepo:    lineupRepo,
		userCardRepo:  userCardRepo,
		playerRepo:    playerRepo,
		statsRepo:     statsRepo,
		userTokenRepo: userTokenRepo,
		tokenCatalog:  tokenCatalog,
		uow:           uow,
		logger:        logger,
		now:           time.Now,
	}
}

// ScoreWeek scores every submitted lineup of a locked week. Re-running is
// safe: already-scored lineups are not in the submitted set, and the
// status flip inside each unit of work guards the race when two runs
// overlap. The batch result reports per-lineup outcomes.
func (s *ScoringService) ScoreWeek(ctx context.Context, in ScoreWeekInput) (ScoreWeekResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreWeek")
	defer span.End()

	if in.WeekID == "" {
		return ScoreWeekResult{}, fmt.Errorf("%w: week_id is required", ErrInvalidInput)
	}

	gameWeek, exists, err := s.weekRepo.GetByID(ctx, in.WeekID)
	if err != nil {
		return ScoreWeekResult{}, fmt.Errorf("get week: %w", err)
	}
	if !exists {
		return ScoreWeekResult{}, fmt.Errorf("%w: week %s", ErrNotFound, in.WeekID)
	}
	if !gameWeek.LockedAt(s.now().UTC()) {
		return ScoreWeekResult{}, fmt.Errorf("%w: week %s is not locked yet", ErrInvalidState, in.WeekID)
	}

	lineups, err := s.lineupRepo.ListByWeekAndStatus(ctx, in.WeekID, lineup.StatusSubmitted)
	if err != nil {
		return ScoreWeekResult{}, fmt.Errorf("list submitted lineups: %w", err)
	}

	workerCount := in.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultScoringWorkers
	}
	if workerCount > len(lineups) && len(lineups) > 0 {
		workerCount = len(lineups)
	}

	result := ScoreWeekResult{
		WeekID:      in.WeekID,
		LineupCount: len(lineups),
		WorkerCount: workerCount,
		Lineups:     make([]ScoredLineupRow, len(lineups)),
	}
	if len(lineups) == 0 {
		return result, nil
	}

	var scoredCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ScoreWeekResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, item := range lineups {
		i, item := i, item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := ScoredLineupRow{LineupID: item.ID, TeamID: item.TeamID}

			scored, err := s.scoreLineup(ctx, gameWeek, item)
			switch {
			case err == nil:
				row.Status = scoreStatusScored
				row.TotalPoints = scored.TotalPoints
				scoredCount.Add(1)
			case isAlreadyScored(err):
				row.Status = scoreStatusSkipped
				row.Message = "already scored"
				skippedCount.Add(1)
			default:
				row.Status = scoreStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "lineup scoring failed",
					"lineup_id", item.ID,
					"team_id", item.TeamID,
					"week_id", in.WeekID,
					"error", err,
				)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			result.Lineups[i] = row
		}); err != nil {
			workers.Done()
			result.Lineups[i] = ScoredLineupRow{
				LineupID: item.ID,
				TeamID:   item.TeamID,
				Status:   scoreStatusFailed,
				Message:  fmt.Sprintf("submit to worker pool: %s", err),
			}
			failedCount.Add(1)
		}
	}
	workers.Wait()

	result.ScoredCount = int(scoredCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	s.logger.InfoContext(ctx, "week scoring finished",
		"week_id", in.WeekID,
		"lineups", result.LineupCount,
		"scored", result.ScoredCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

// slotScore is the computed outcome of one slot before persistence.
type slotScore struct {
	points          float64
	cardID          string
	evolution       *card.EvolutionResult
	consumedTokenID string
	played          bool
}

func (s *ScoringService) scoreLineup(ctx context.Context, gameWeek week.Week, item lineup.Lineup) (lineup.Lineup, error) {
	scores := make([]slotScore, len(item.Slots))
	total := 0.0

	for i, slot := range item.Slots {
		if slot.Position == lineup.SlotBench || slot.UserCardID == "" {
			continue
		}

		userCard, exists, err := s.userCardRepo.GetByID(ctx, slot.UserCardID)
		if err != nil {
			return lineup.Lineup{}, fmt.Errorf("load card for slot %d: %w", i, err)
		}
		if !exists {
			return lineup.Lineup{}, fmt.Errorf("slot %d references unknown card %s", i, slot.UserCardID)
		}

		owner, exists, err := s.playerRepo.GetByID(ctx, userCard.PlayerID)
		if err != nil {
			return lineup.Lineup{}, fmt.Errorf("load player for slot %d: %w", i, err)
		}
		if !exists {
			return lineup.Lineup{}, fmt.Errorf("slot %d references unknown player %s", i, userCard.PlayerID)
		}

		// A card sold after submission no longer plays: the sold record
		// stays immutable and its slot contributes nothing.
		if userCard.Status != card.StatusOwned {
			scores[i] = slotScore{cardID: userCard.ID}
			continue
		}

		line, found, err := s.statsRepo.GetByPlayerAndWeek(ctx, userCard.PlayerID, gameWeek.ID)
		if err != nil {
			return lineup.Lineup{}, fmt.Errorf("load stats for slot %d: %w", i, err)
		}
		// Scoring before the games finish would forfeit the slot's
		// points for good, so the whole lineup fails and stays
		// submitted for the rerun after stats land.
		if !found || !line.Finalized {
			return lineup.Lineup{}, fmt.Errorf("%w: stats for player %s in week %s are not finalized", ErrInvalidState, userCard.PlayerID, gameWeek.ID)
		}

		score := slotScore{cardID: userCard.ID, played: true}
		base := stats.FantasyPoints(owner.Position, line.Metrics, stats.ProfileWeekly)
		points := base

		if slot.AppliedTokenID != "" {
			bonus, consumed, err := s.tokenBonus(ctx, item.TeamID, slot.AppliedTokenID, line, base)
			if err != nil {
				return lineup.Lineup{}, fmt.Errorf("evaluate token for slot %d: %w", i, err)
			}
			points += bonus
			score.consumedTokenID = consumed
		}

		points = stats.Round1(points)
		if points < 0 {
			points = 0
		}
		score.points = points

		evolved := card.Evolve(userCard, points)
		score.evolution = &evolved
		total += points
		scores[i] = score
	}

	now := s.now().UTC()
	scoredItem := item
	scoredItem.Status = lineup.StatusScored
	scoredItem.TotalPoints = stats.Round1(total)
	scoredItem.ScoredAt = &now
	scoredItem.UpdatedAt = now
	for i := range scoredItem.Slots {
		scoredItem.Slots[i].Points = scores[i].points
	}

	err := s.uow.Run(ctx, func(ctx context.Context) error {
		// The status flip is the idempotency guard: a concurrent run
		// loses here and rolls everything back.
		if err := s.lineupRepo.MarkScored(ctx, item.ID, scoredItem); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidState, err)
		}
		for i, score := range scores {
			if !score.played {
				continue
			}
			if score.evolution != nil {
				if err := s.userCardRepo.ApplyEvolution(ctx, score.cardID, *score.evolution); err != nil {
					return fmt.Errorf("apply evolution for slot %d: %w", i, err)
				}
			}
			if err := s.userCardRepo.ConsumeContract(ctx, score.cardID); err != nil {
				return fmt.Errorf("consume contract for slot %d: %w", i, err)
			}
			if score.consumedTokenID != "" {
				if err := s.userTokenRepo.ConsumeUse(ctx, score.consumedTokenID); err != nil {
					return fmt.Errorf("consume token use for slot %d: %w", i, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return lineup.Lineup{}, err
	}
	return scoredItem, nil
}

// tokenBonus evaluates the applied token against the slot's game line and
// returns the point delta plus the token ID to consume when satisfied. An
// unusable or unsatisfied token contributes nothing and costs no use.
func (s *ScoringService) tokenBonus(ctx context.Context, teamID, userTokenID string, line stats.PlayerGameStats, basePoints float64) (float64, string, error) {
	userToken, exists, err := s.userTokenRepo.GetByID(ctx, userTokenID)
	if err != nil {
		return 0, "", fmt.Errorf("load user token: %w", err)
	}
	if !exists || userToken.TeamID != teamID || !userToken.Usable() {
		return 0, "", nil
	}

	tokenType, exists, err := s.tokenCatalog.GetByID(ctx, userToken.TokenTypeID)
	if err != nil {
		return 0, "", fmt.Errorf("load token type: %w", err)
	}
	if !exists {
		return 0, "", nil
	}

	if !token.Evaluate(tokenType.Condition, line.Metrics, line.TeamResult) {
		return 0, "", nil
	}
	return token.ComputeReward(tokenType.Reward, basePoints), userToken.ID, nil
}

func isAlreadyScored(err error) bool {
	// MarkScored failures surface as invalid-state errors; anything else
	// is a genuine scoring failure.
	return errors.Is(err, ErrInvalidState)
}
