package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
	"github.com/riskibarqy/fantasy-cards/internal/domain/team"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	"github.com/riskibarqy/fantasy-cards/internal/domain/week"
	idgen "github.com/riskibarqy/fantasy-cards/internal/platform/id"
	"github.com/riskibarqy/fantasy-cards/internal/platform/logging"
)

// LineupService handles weekly roster submissions. Submission is the last
// write before the week locks; after lock_at the lineup is frozen until
// scoring picks it up.
type LineupService struct {
	teamRepo      team.Repository
	weekRepo      week.Repository
	lineupRepo    lineup.Repository
	userCardRepo  card.UserCardRepository
	cardCatalog   card.CatalogRepository
	playerRepo    player.Repository
	userTokenRepo token.UserTokenRepository
	ids           idgen.Generator
	logger        *logging.Logger
	now           func() time.Time
}

func NewLineupService(
	teamRepo team.Repository,
	weekRepo week.Repository,
	lineupRepo lineup.Repository,
	userCardRepo card.UserCardRepository,
	cardCatalog card.CatalogRepository,
	playerRepo player.Repository,
	userTokenRepo token.UserTokenRepository,
	ids idgen.Generator,
	logger *logging.Logger,
) *LineupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LineupService{
		teamRepo:      teamRepo,
		weekRepo:      weekRepo,
		lineupRepo:    lineupRepo,
		userCardRepo:  userCardRepo,
		cardCatalog:   cardCatalog,
		playerRepo:    playerRepo,
		userTokenRepo: userTokenRepo,
		ids:           ids,
		logger:        logger,
		now:           time.Now,
	}
}

// SubmitLineup validates and stores the full slot assignment for the
// (team, week). Resubmitting before lock replaces the prior submission
// entirely; submitting at or after lock_at fails with ErrInvalidState.
// Rule failures come back as a *ValidationError listing every violation.
func (s *LineupService) SubmitLineup(ctx context.Context, userID, teamID, weekID string, slots []lineup.Slot) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.SubmitLineup")
	defer span.End()

	if userID == "" || teamID == "" || weekID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: user_id, team_id and week_id are required", ErrInvalidInput)
	}
	if len(slots) == 0 {
		return lineup.Lineup{}, fmt.Errorf("%w: at least one slot is required", ErrInvalidInput)
	}

	if err := s.requireOwnedTeam(ctx, userID, teamID); err != nil {
		return lineup.Lineup{}, err
	}

	gameWeek, exists, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get week: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, fmt.Errorf("%w: week %s", ErrNotFound, weekID)
	}

	now := s.now().UTC()
	if gameWeek.LockedAt(now) {
		return lineup.Lineup{}, fmt.Errorf("%w: week %s locked at %s", ErrInvalidState, weekID, gameWeek.LockAt.Format(time.RFC3339))
	}

	cardViews, err := s.loadCardViews(ctx, slots)
	if err != nil {
		return lineup.Lineup{}, err
	}
	tokenViews, err := s.loadTokenViews(ctx, slots)
	if err != nil {
		return lineup.Lineup{}, err
	}

	if violations := lineup.ValidateSlots(teamID, slots, cardViews, tokenViews); len(violations) > 0 {
		out := make([]SlotViolation, 0, len(violations))
		for _, v := range violations {
			out = append(out, SlotViolation{SlotIndex: v.SlotIndex, Position: string(v.Position), Reason: v.Reason})
		}
		return lineup.Lineup{}, &ValidationError{Violations: out}
	}

	existing, found, err := s.lineupRepo.GetByTeamAndWeek(ctx, teamID, weekID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get lineup: %w", err)
	}
	if found && existing.Status == lineup.StatusScored {
		return lineup.Lineup{}, fmt.Errorf("%w: lineup already scored", ErrInvalidState)
	}

	lineupID := existing.ID
	if !found {
		lineupID, err = s.ids.NewID()
		if err != nil {
			return lineup.Lineup{}, fmt.Errorf("generate lineup id: %w", err)
		}
	}

	submission := lineup.Lineup{
		ID:          lineupID,
		TeamID:      teamID,
		WeekID:      weekID,
		Status:      lineup.StatusSubmitted,
		Slots:       slots,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err := s.lineupRepo.Upsert(ctx, submission); err != nil {
		return lineup.Lineup{}, fmt.Errorf("store lineup: %w", err)
	}

	s.logger.InfoContext(ctx, "lineup submitted",
		"team_id", teamID,
		"week_id", weekID,
		"slots", len(slots),
		"resubmission", found,
	)
	return submission, nil
}

// GetLineup returns the caller's lineup for the week.
func (s *LineupService) GetLineup(ctx context.Context, userID, teamID, weekID string) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.GetLineup")
	defer span.End()

	if err := s.requireOwnedTeam(ctx, userID, teamID); err != nil {
		return lineup.Lineup{}, err
	}

	item, exists, err := s.lineupRepo.GetByTeamAndWeek(ctx, teamID, weekID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get lineup: %w", err)
	}
	if !exists {
		return lineup.Lineup{}, fmt.Errorf("%w: no lineup for team %s week %s", ErrNotFound, teamID, weekID)
	}
	return item, nil
}

func (s *LineupService) requireOwnedTeam(ctx context.Context, userID, teamID string) error {
	owned, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}
	if !owned.OwnedBy(userID) {
		return fmt.Errorf("%w: team %s is not owned by caller", ErrUnauthorized, teamID)
	}
	return nil
}

func (s *LineupService) loadCardViews(ctx context.Context, slots []lineup.Slot) (map[string]lineup.CardView, error) {
	ids := make([]string, 0, len(slots))
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		if slot.UserCardID == "" {
			continue
		}
		if _, ok := seen[slot.UserCardID]; ok {
			continue
		}
		seen[slot.UserCardID] = struct{}{}
		ids = append(ids, slot.UserCardID)
	}
	if len(ids) == 0 {
		return map[string]lineup.CardView{}, nil
	}

	userCards, err := s.userCardRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load user cards: %w", err)
	}

	playerIDs := make([]string, 0, len(userCards))
	for _, uc := range userCards {
		playerIDs = append(playerIDs, uc.PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	positionByPlayer := make(map[string]player.Position, len(players))
	for _, p := range players {
		positionByPlayer[p.ID] = p.Position
	}

	views := make(map[string]lineup.CardView, len(userCards))
	for _, uc := range userCards {
		views[uc.ID] = lineup.CardView{Card: uc, PlayerPosition: positionByPlayer[uc.PlayerID]}
	}
	return views, nil
}

func (s *LineupService) loadTokenViews(ctx context.Context, slots []lineup.Slot) (map[string]lineup.TokenView, error) {
	views := make(map[string]lineup.TokenView)
	for _, slot := range slots {
		if slot.AppliedTokenID == "" {
			continue
		}
		if _, ok := views[slot.AppliedTokenID]; ok {
			continue
		}
		item, exists, err := s.userTokenRepo.GetByID(ctx, slot.AppliedTokenID)
		if err != nil {
			return nil, fmt.Errorf("load user token: %w", err)
		}
		if !exists {
			continue
		}
		views[slot.AppliedTokenID] = lineup.TokenView{TeamID: item.TeamID, UsesRemaining: item.UsesRemaining}
	}
	return views, nil
}
