package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-cards/internal/domain/pack"
	"github.com/riskibarqy/fantasy-cards/internal/domain/team"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	idgen "github.com/riskibarqy/fantasy-cards/internal/platform/id"
	"github.com/riskibarqy/fantasy-cards/internal/platform/logging"
)

// EconomyService owns every mutation of team coin balances. Purchase,
// open, sell and grant are the only writers; each runs as one unit of
// work so partial state is never visible.
type EconomyService struct {
	teamRepo      team.Repository
	packCatalog   pack.CatalogRepository
	userPackRepo  pack.UserPackRepository
	cardCatalog   card.CatalogRepository
	userCardRepo  card.UserCardRepository
	tokenCatalog  token.CatalogRepository
	userTokenRepo token.UserTokenRepository
	ledgerRepo    ledger.Repository
	uow           ledger.UnitOfWork
	roller        *pack.Roller
	ids           idgen.Generator
	logger        *logging.Logger
	now           func() time.Time
}

func NewEconomyService(
	teamRepo team.Repository,
	packCatalog pack.CatalogRepository,
	userPackRepo pack.UserPackRepository,
	cardCatalog card.CatalogRepository,
	userCardRepo card.UserCardRepository,
	tokenCatalog token.CatalogRepository,
	userTokenRepo token.UserTokenRepository,
	ledgerRepo ledger.Repository,
	uow ledger.UnitOfWork,
	roller *pack.Roller,
	ids idgen.Generator,
	logger *logging.Logger,
) *EconomyService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EconomyService{
		teamRepo:      teamRepo,
		packCatalog:   packCatalog,
		userPackRepo:  userPackRepo,
		cardCatalog:   cardCatalog,
		userCardRepo:  userCardRepo,
		tokenCatalog:  tokenCatalog,
		userTokenRepo: userTokenRepo,
		ledgerRepo:    ledgerRepo,
		uow:           uow,
		roller:        roller,
		ids:           ids,
		logger:        logger,
		now:           time.Now,
	}
}

type PurchaseResult struct {
	UserPack         pack.UserPack
	Transaction      ledger.Transaction
	AlreadyProcessed bool
}

// PurchasePack debits the pack price, mints an unopened UserPack and
// appends one ledger entry, atomically. A repeated call with the same
// idempotency key returns the original result instead of re-charging.
func (s *EconomyService) PurchasePack(ctx context.Context, userID, teamID, packID, idempotencyKey string) (PurchaseResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EconomyService.PurchasePack")
	defer span.End()

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if userID == "" || teamID == "" || packID == "" {
		return PurchaseResult{}, fmt.Errorf("%w: user_id, team_id and pack_id are required", ErrInvalidInput)
	}
	if idempotencyKey == "" {
		return PurchaseResult{}, fmt.Errorf("%w: idempotency_key is required", ErrInvalidInput)
	}

	owned, err := s.ownedTeam(ctx, userID, teamID)
	if err != nil {
		return PurchaseResult{}, err
	}

	template, exists, err := s.packCatalog.GetByID(ctx, packID)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("get pack template: %w", err)
	}
	if !exists || !template.Enabled {
		return PurchaseResult{}, fmt.Errorf("%w: pack %s", ErrNotFound, packID)
	}
	if owned.Coins < template.PriceCoins {
		return PurchaseResult{}, fmt.Errorf("%w: need %d coins, have %d", ErrInsufficientFunds, template.PriceCoins, owned.Coins)
	}

	userPackID, err := s.ids.NewID()
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("generate user pack id: %w", err)
	}
	transactionID, err := s.ids.NewID()
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("generate transaction id: %w", err)
	}

	now := s.now().UTC()
	userPack := pack.UserPack{
		ID:          userPackID,
		TeamID:      teamID,
		PackID:      template.ID,
		Status:      pack.StatusUnopened,
		PurchasedAt: now,
	}
	entry := ledger.Transaction{
		ID:             transactionID,
		TeamID:         teamID,
		Type:           ledger.TypePackPurchase,
		Amount:         -template.PriceCoins,
		IdempotencyKey: idempotencyKey,
		Reference:      userPackID,
		CreatedAt:      now,
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		// The uniqueness constraint on (team, key) is the authoritative
		// dedup; appending first keeps the balance check race-safe.
		if err := s.ledgerRepo.Append(ctx, entry); err != nil {
			return err
		}
		if _, err := s.teamRepo.AdjustCoins(ctx, teamID, -template.PriceCoins); err != nil {
			return fmt.Errorf("%w: %s", ErrInsufficientFunds, err)
		}
		return s.userPackRepo.Create(ctx, userPack)
	})
	if errors.Is(err, ledger.ErrDuplicateIdempotencyKey) {
		return s.priorPurchase(ctx, teamID, idempotencyKey)
	}
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("purchase pack: %w", err)
	}

	s.logger.InfoContext(ctx, "pack purchased",
		"team_id", teamID,
		"pack_id", template.ID,
		"price_coins", template.PriceCoins,
	)
	return PurchaseResult{UserPack: userPack, Transaction: entry}, nil
}

func (s *EconomyService) priorPurchase(ctx context.Context, teamID, idempotencyKey string) (PurchaseResult, error) {
	prior, exists, err := s.ledgerRepo.GetByIdempotencyKey(ctx, teamID, idempotencyKey)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("load prior purchase: %w", err)
	}
	if !exists {
		return PurchaseResult{}, fmt.Errorf("%w: duplicate key without prior transaction", ErrDependencyUnavailable)
	}

	userPack, exists, err := s.userPackRepo.GetByID(ctx, prior.Reference)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("load prior user pack: %w", err)
	}
	if !exists {
		return PurchaseResult{}, fmt.Errorf("%w: prior user pack %s", ErrNotFound, prior.Reference)
	}

	return PurchaseResult{UserPack: userPack, Transaction: prior, AlreadyProcessed: true}, nil
}

type OpenPackResult struct {
	UserPack     pack.UserPack
	Cards        []card.UserCard
	Tokens       []token.UserToken
	CoinsGranted int64
}

// OpenPack rolls the pack contents, flips the pack to opened and grants
// the rolled cards/tokens atomically. The status flip is exactly-once: a
// retry on an opened pack fails with ErrInvalidState and grants nothing.
func (s *EconomyService) OpenPack(ctx context.Context, userID, userPackID string) (OpenPackResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EconomyService.OpenPack")
	defer span.End()

	if userID == "" || userPackID == "" {
		return OpenPackResult{}, fmt.Errorf("%w: user_id and user_pack_id are required", ErrInvalidInput)
	}

	userPack, exists, err := s.userPackRepo.GetByID(ctx, userPackID)
	if err != nil {
		return OpenPackResult{}, fmt.Errorf("get user pack: %w", err)
	}
	if !exists {
		return OpenPackResult{}, fmt.Errorf("%w: user pack %s", ErrNotFound, userPackID)
	}
	if _, err := s.ownedTeam(ctx, userID, userPack.TeamID); err != nil {
		return OpenPackResult{}, err
	}
	if userPack.Status != pack.StatusUnopened {
		return OpenPackResult{}, fmt.Errorf("%w: pack already opened", ErrInvalidState)
	}

	template, exists, err := s.packCatalog.GetByID(ctx, userPack.PackID)
	if err != nil {
		return OpenPackResult{}, fmt.Errorf("get pack template: %w", err)
	}
	if !exists {
		return OpenPackResult{}, fmt.Errorf("%w: pack template %s", ErrNotFound, userPack.PackID)
	}

	// Snapshot the catalog before the unit of work begins; no catalog
	// read happens mid-transaction.
	snapshot, err := s.snapshotCatalog(ctx, template.Contents)
	if err != nil {
		return OpenPackResult{}, err
	}

	rolled, err := s.roller.Roll(ctx, template.Contents, snapshot)
	if err != nil {
		return OpenPackResult{}, fmt.Errorf("roll pack contents: %w", err)
	}
	for _, gap := range rolled.Gaps {
		s.logger.WarnContext(ctx, "pack slot yielded nothing",
			"pack_id", template.ID,
			"slot_index", gap.SlotIndex,
			"slot_type", string(gap.SlotType),
			"rarity", string(gap.Rarity),
		)
	}

	now := s.now().UTC()
	grantedCards := make([]card.UserCard, 0, len(rolled.Cards))
	for _, tmpl := range rolled.Cards {
		cardID, err := s.ids.NewID()
		if err != nil {
			return OpenPackResult{}, fmt.Errorf("generate user card id: %w", err)
		}
		grantedCards = append(grantedCards, card.NewUserCard(cardID, userPack.TeamID, tmpl, now))
	}

	grantedTokens := make([]token.UserToken, 0, len(rolled.Tokens))
	for _, tmpl := range rolled.Tokens {
		tokenID, err := s.ids.NewID()
		if err != nil {
			return OpenPackResult{}, fmt.Errorf("generate user token id: %w", err)
		}
		grantedTokens = append(grantedTokens, token.UserToken{
			ID:            tokenID,
			TeamID:        userPack.TeamID,
			TokenTypeID:   tmpl.ID,
			UsesRemaining: tmpl.MaxUses,
			AcquiredAt:    now,
		})
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.userPackRepo.MarkOpened(ctx, userPack.ID); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidState, err)
		}
		if len(grantedCards) > 0 {
			if err := s.userCardRepo.CreateBatch(ctx, grantedCards); err != nil {
				return fmt.Errorf("grant cards: %w", err)
			}
		}
		if len(grantedTokens) > 0 {
			if err := s.userTokenRepo.CreateBatch(ctx, grantedTokens); err != nil {
				return fmt.Errorf("grant tokens: %w", err)
			}
		}
		if rolled.Coins > 0 {
			transactionID, err := s.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate transaction id: %w", err)
			}
			if err := s.ledgerRepo.Append(ctx, ledger.Transaction{
				ID:             transactionID,
				TeamID:         userPack.TeamID,
				Type:           ledger.TypePackCoins,
				Amount:         rolled.Coins,
				IdempotencyKey: "pack-coins:" + userPack.ID,
				Reference:      userPack.ID,
				CreatedAt:      now,
			}); err != nil {
				return fmt.Errorf("append coin grant: %w", err)
			}
			if _, err := s.teamRepo.AdjustCoins(ctx, userPack.TeamID, rolled.Coins); err != nil {
				return fmt.Errorf("credit pack coins: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return OpenPackResult{}, fmt.Errorf("open pack: %w", err)
	}

	userPack.Status = pack.StatusOpened
	userPack.OpenedAt = &now
	s.logger.InfoContext(ctx, "pack opened",
		"user_pack_id", userPack.ID,
		"cards_granted", len(grantedCards),
		"tokens_granted", len(grantedTokens),
		"coins_granted", rolled.Coins,
	)
	return OpenPackResult{
		UserPack:     userPack,
		Cards:        grantedCards,
		Tokens:       grantedTokens,
		CoinsGranted: rolled.Coins,
	}, nil
}

type SellResult struct {
	Card             card.UserCard
	Transaction      ledger.Transaction
	AlreadyProcessed bool
}

// SellCard marks the card sold and credits its current sell value,
// atomically. Cards with no contracts remaining cannot be sold.
func (s *EconomyService) SellCard(ctx context.Context, userID, userCardID, idempotencyKey string) (SellResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EconomyService.SellCard")
	defer span.End()

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if userID == "" || userCardID == "" {
		return SellResult{}, fmt.Errorf("%w: user_id and user_card_id are required", ErrInvalidInput)
	}
	if idempotencyKey == "" {
		return SellResult{}, fmt.Errorf("%w: idempotency_key is required", ErrInvalidInput)
	}

	item, exists, err := s.userCardRepo.GetByID(ctx, userCardID)
	if err != nil {
		return SellResult{}, fmt.Errorf("get user card: %w", err)
	}
	if !exists {
		return SellResult{}, fmt.Errorf("%w: user card %s", ErrNotFound, userCardID)
	}
	if _, err := s.ownedTeam(ctx, userID, item.TeamID); err != nil {
		return SellResult{}, err
	}
	if item.Status != card.StatusOwned {
		return SellResult{}, fmt.Errorf("%w: card already sold", ErrInvalidState)
	}
	if item.RemainingContracts <= 0 {
		return SellResult{}, fmt.Errorf("%w: card has no contracts remaining", ErrInvalidState)
	}

	transactionID, err := s.ids.NewID()
	if err != nil {
		return SellResult{}, fmt.Errorf("generate transaction id: %w", err)
	}

	now := s.now().UTC()
	entry := ledger.Transaction{
		ID:             transactionID,
		TeamID:         item.TeamID,
		Type:           ledger.TypeCardSale,
		Amount:         item.CurrentSellValue,
		IdempotencyKey: idempotencyKey,
		Reference:      item.ID,
		CreatedAt:      now,
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.ledgerRepo.Append(ctx, entry); err != nil {
			return err
		}
		if err := s.userCardRepo.MarkSold(ctx, item.ID); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidState, err)
		}
		if _, err := s.teamRepo.AdjustCoins(ctx, item.TeamID, item.CurrentSellValue); err != nil {
			return fmt.Errorf("credit sale: %w", err)
		}
		return nil
	})
	if errors.Is(err, ledger.ErrDuplicateIdempotencyKey) {
		prior, exists, err := s.ledgerRepo.GetByIdempotencyKey(ctx, item.TeamID, idempotencyKey)
		if err != nil {
			return SellResult{}, fmt.Errorf("load prior sale: %w", err)
		}
		if !exists {
			return SellResult{}, fmt.Errorf("%w: duplicate key without prior transaction", ErrDependencyUnavailable)
		}
		return SellResult{Card: item, Transaction: prior, AlreadyProcessed: true}, nil
	}
	if err != nil {
		return SellResult{}, fmt.Errorf("sell card: %w", err)
	}

	item.Status = card.StatusSold
	item.UpdatedAt = now
	s.logger.InfoContext(ctx, "card sold",
		"user_card_id", item.ID,
		"team_id", item.TeamID,
		"sell_value", item.CurrentSellValue,
	)
	return SellResult{Card: item, Transaction: entry}, nil
}

// GrantCoins credits coins to a team outside the purchase/sale flow, e.g.
// weekly rewards pushed by an operator job.
func (s *EconomyService) GrantCoins(ctx context.Context, teamID string, amount int64, reference, idempotencyKey string) (ledger.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EconomyService.GrantCoins")
	defer span.End()

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if teamID == "" || idempotencyKey == "" {
		return ledger.Transaction{}, fmt.Errorf("%w: team_id and idempotency_key are required", ErrInvalidInput)
	}
	if amount <= 0 {
		return ledger.Transaction{}, fmt.Errorf("%w: grant amount must be greater than zero", ErrInvalidInput)
	}

	if _, exists, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return ledger.Transaction{}, fmt.Errorf("get team: %w", err)
	} else if !exists {
		return ledger.Transaction{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	transactionID, err := s.ids.NewID()
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}

	entry := ledger.Transaction{
		ID:             transactionID,
		TeamID:         teamID,
		Type:           ledger.TypeCoinGrant,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
		Reference:      reference,
		CreatedAt:      s.now().UTC(),
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.ledgerRepo.Append(ctx, entry); err != nil {
			return err
		}
		_, err := s.teamRepo.AdjustCoins(ctx, teamID, amount)
		return err
	})
	if errors.Is(err, ledger.ErrDuplicateIdempotencyKey) {
		prior, exists, err := s.ledgerRepo.GetByIdempotencyKey(ctx, teamID, idempotencyKey)
		if err != nil || !exists {
			return ledger.Transaction{}, fmt.Errorf("load prior grant: %w", err)
		}
		return prior, nil
	}
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("grant coins: %w", err)
	}

	return entry, nil
}

// ListTransactions returns the team's ledger history for reconciliation.
func (s *EconomyService) ListTransactions(ctx context.Context, userID, teamID string) ([]ledger.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EconomyService.ListTransactions")
	defer span.End()

	if _, err := s.ownedTeam(ctx, userID, teamID); err != nil {
		return nil, err
	}
	items, err := s.ledgerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return items, nil
}

func (s *EconomyService) ownedTeam(ctx context.Context, userID, teamID string) (team.Team, error) {
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

type catalogSnapshot struct {
	cards  map[card.Rarity][]card.Card
	tokens map[card.Rarity][]token.TokenType
}

func (s catalogSnapshot) CardsByRarity(_ context.Context, rarity card.Rarity) ([]card.Card, error) {
	return s.cards[rarity], nil
}

func (s catalogSnapshot) TokenTypesByRarity(_ context.Context, rarity card.Rarity) ([]token.TokenType, error) {
	return s.tokens[rarity], nil
}

func (s *EconomyService) snapshotCatalog(ctx context.Context, contents []pack.SlotSchema) (pack.CatalogSnapshot, error) {
	snapshot := catalogSnapshot{
		cards:  make(map[card.Rarity][]card.Card),
		tokens: make(map[card.Rarity][]token.TokenType),
	}

	for _, slot := range contents {
		for rarity := range slot.RarityWeights {
			switch slot.Type {
			case pack.SlotCard:
				if _, ok := snapshot.cards[rarity]; ok {
					continue
				}
				items, err := s.cardCatalog.ListEnabledByRarity(ctx, rarity)
				if err != nil {
					return nil, fmt.Errorf("snapshot card catalog for %s: %w", rarity, err)
				}
				snapshot.cards[rarity] = items
			case pack.SlotToken:
				if _, ok := snapshot.tokens[rarity]; ok {
					continue
				}
				items, err := s.tokenCatalog.ListEnabledByRarity(ctx, rarity)
				if err != nil {
					return nil, fmt.Errorf("snapshot token catalog for %s: %w", rarity, err)
				}
				snapshot.tokens[rarity] = items
			}
		}
	}

	return snapshot, nil
}
