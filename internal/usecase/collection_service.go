package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/pack"
	"github.com/riskibarqy/fantasy-cards/internal/domain/team"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	"github.com/riskibarqy/fantasy-cards/internal/domain/week"
	"github.com/riskibarqy/fantasy-cards/internal/platform/cache"
)

const (
	cacheKeyCatalogPacks = "catalog:packs"
	cacheKeySeasonWeeks  = "weeks:season:"
)

// CollectionService serves inventory and catalog reads. Catalog templates
// and week metadata change rarely, so they sit behind the TTL cache;
// per-team inventory always reads through.
type CollectionService struct {
	teamRepo      team.Repository
	userCardRepo  card.UserCardRepository
	userPackRepo  pack.UserPackRepository
	userTokenRepo token.UserTokenRepository
	packCatalog   pack.CatalogRepository
	weekRepo      week.Repository
	cache         *cache.Store
}

func NewCollectionService(
	teamRepo team.Repository,
	userCardRepo card.UserCardRepository,
	userPackRepo pack.UserPackRepository,
	userTokenRepo token.UserTokenRepository,
	packCatalog pack.CatalogRepository,
	weekRepo week.Repository,
	cacheStore *cache.Store,
) *CollectionService {
	return &CollectionService{
		teamRepo:      teamRepo,
		userCardRepo:  userCardRepo,
		userPackRepo:  userPackRepo,
		userTokenRepo: userTokenRepo,
		packCatalog:   packCatalog,
		weekRepo:      weekRepo,
		cache:         cacheStore,
	}
}

func (s *CollectionService) ListMyTeams(ctx context.Context, userID string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.ListMyTeams")
	defer span.End()

	items, err := s.teamRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return items, nil
}

func (s *CollectionService) GetMyTeam(ctx context.Context, userID, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.GetMyTeam")
	defer span.End()

	return s.ownedTeam(ctx, userID, teamID)
}

func (s *CollectionService) ListCards(ctx context.Context, userID, teamID string) ([]card.UserCard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.ListCards")
	defer span.End()

	if _, err := s.ownedTeam(ctx, userID, teamID); err != nil {
		return nil, err
	}
	items, err := s.userCardRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return items, nil
}

func (s *CollectionService) ListPacks(ctx context.Context, userID, teamID string) ([]pack.UserPack, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.ListPacks")
	defer span.End()

	if _, err := s.ownedTeam(ctx, userID, teamID); err != nil {
		return nil, err
	}
	items, err := s.userPackRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list packs: %w", err)
	}
	return items, nil
}

func (s *CollectionService) ListTokens(ctx context.Context, userID, teamID string) ([]token.UserToken, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.ListTokens")
	defer span.End()

	if _, err := s.ownedTeam(ctx, userID, teamID); err != nil {
		return nil, err
	}
	items, err := s.userTokenRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	return items, nil
}

// ListCatalogPacks returns every purchasable pack template.
func (s *CollectionService) ListCatalogPacks(ctx context.Context) ([]pack.Pack, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.ListCatalogPacks")
	defer span.End()

	if s.cache == nil {
		return s.packCatalog.ListEnabled(ctx)
	}

	value, err := s.cache.GetOrLoad(ctx, cacheKeyCatalogPacks, func(ctx context.Context) (any, error) {
		return s.packCatalog.ListEnabled(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list catalog packs: %w", err)
	}
	return value.([]pack.Pack), nil
}

func (s *CollectionService) ListWeeks(ctx context.Context, season int) ([]week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionService.ListWeeks")
	defer span.End()

	if season <= 0 {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	if s.cache == nil {
		return s.weekRepo.ListBySeason(ctx, season)
	}

	value, err := s.cache.GetOrLoad(ctx, cacheKeySeasonWeeks+strconv.Itoa(season), func(ctx context.Context) (any, error) {
		return s.weekRepo.ListBySeason(ctx, season)
	})
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	return value.([]week.Week), nil
}

func (s *CollectionService) ownedTeam(ctx context.Context, userID, teamID string) (team.Team, error) {
	if userID == "" || teamID == "" {
		return team.Team{}, fmt.Errorf("%w: user_id and team_id are required", ErrInvalidInput)
	}
	owned, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}
	if !owned.OwnedBy(userID) {
		return team.Team{}, fmt.Errorf("%w: team %s is not owned by caller", ErrUnauthorized, teamID)
	}
	return owned, nil
}
