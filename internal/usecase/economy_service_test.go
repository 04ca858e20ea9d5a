package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-cards/internal/domain/pack"
	"github.com/riskibarqy/fantasy-cards/internal/domain/team"
	"github.com/riskibarqy/fantasy-cards/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cards/internal/platform/rng"
)

type seqIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

type economyFixture struct {
	svc        *EconomyService
	teams      *memory.TeamRepository
	ledger     *memory.LedgerRepository
	userPacks  *memory.UserPackRepository
	userCards  *memory.UserCardRepository
	userTokens *memory.UserTokenRepository
}

func newEconomyFixture(t *testing.T, coins int64) *economyFixture {
	t.Helper()

	teams := memory.NewTeamRepository([]team.Team{
		{ID: "team-1", UserID: "user-1", Name: "Gridiron Gang", Coins: coins, Active: true},
	})
	userPacks := memory.NewUserPackRepository()
	userCards := memory.NewUserCardRepository()
	userTokens := memory.NewUserTokenRepository()
	ledgerRepo := memory.NewLedgerRepository()
	uow := memory.NewUnitOfWork(teams, userPacks, userCards, userTokens, ledgerRepo)

	svc := NewEconomyService(
		teams,
		memory.NewPackCatalogRepository(memory.SeedPacks()),
		userPacks,
		memory.NewCardCatalogRepository(memory.SeedCards()),
		userCards,
		memory.NewTokenCatalogRepository(memory.SeedTokenTypes()),
		userTokens,
		ledgerRepo,
		uow,
		pack.NewRoller(rng.NewSeeded(7)),
		&seqIDGenerator{},
		nil,
	)
	svc.now = func() time.Time { return time.Date(2025, 9, 5, 12, 0, 0, 0, time.UTC) }

	return &economyFixture{
		svc:        svc,
		teams:      teams,
		ledger:     ledgerRepo,
		userPacks:  userPacks,
		userCards:  userCards,
		userTokens: userTokens,
	}
}

func teamBalance(t *testing.T, repo *memory.TeamRepository, teamID string) int64 {
	t.Helper()
	item, ok, err := repo.GetByID(context.Background(), teamID)
	if err != nil || !ok {
		t.Fatalf("get team %s: ok=%v err=%v", teamID, ok, err)
	}
	return item.Coins
}

func TestEconomyService_PurchasePack(t *testing.T) {
	fx := newEconomyFixture(t, 500)

	result, err := fx.svc.PurchasePack(t.Context(), "user-1", "team-1", "pack-starter", "buy-1")
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if result.AlreadyProcessed {
		t.Fatal("first purchase flagged as already processed")
	}
	if result.UserPack.Status != pack.StatusUnopened {
		t.Fatalf("unexpected pack status: %s", result.UserPack.Status)
	}
	if result.Transaction.Amount != -100 {
		t.Fatalf("unexpected transaction amount: %d", result.Transaction.Amount)
	}
	if balance := teamBalance(t, fx.teams, "team-1"); balance != 400 {
		t.Fatalf("unexpected balance after purchase: %d", balance)
	}
}

func TestEconomyService_PurchasePack_DuplicateKeyReturnsPriorResult(t *testing.T) {
	fx := newEconomyFixture(t, 500)

	first, err := fx.svc.PurchasePack(t.Context(), "user-1", "team-1", "pack-starter", "buy-1")
	if err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}
	second, err := fx.svc.PurchasePack(t.Context(), "user-1", "team-1", "pack-starter", "buy-1")
	if err != nil {
		t.Fatalf("repeated purchase failed: %v", err)
	}

	if !second.AlreadyProcessed {
		t.Fatal("repeat purchase not flagged as already processed")
	}
	if second.UserPack.ID != first.UserPack.ID {
		t.Fatalf("repeat purchase returned different pack: %s != %s", second.UserPack.ID, first.UserPack.ID)
	}
	if balance := teamBalance(t, fx.teams, "team-1"); balance != 400 {
		t.Fatalf("balance debited twice: %d", balance)
	}
}

func TestEconomyService_PurchasePack_ConcurrentSameKeyDebitsOnce(t *testing.T) {
	fx := newEconomyFixture(t, 500)

	// Two clients race the same idempotency key: the unique constraint
	// decides the winner and the loser adopts the winner's transaction.
	type outcome struct {
		result PurchaseResult
		err    error
	}
	outcomes := make(chan outcome, 2)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			result, err := fx.svc.PurchasePack(context.Background(), "user-1", "team-1", "pack-starter", "buy-race")
			outcomes <- outcome{result: result, err: err}
		}()
	}
	close(start)
	wg.Wait()
	close(outcomes)

	var transactionIDs []string
	replayed := 0
	for out := range outcomes {
		if out.err != nil {
			t.Fatalf("concurrent purchase failed: %v", out.err)
		}
		transactionIDs = append(transactionIDs, out.result.Transaction.ID)
		if out.result.AlreadyProcessed {
			replayed++
		}
	}
	if transactionIDs[0] != transactionIDs[1] {
		t.Fatalf("callers saw different transactions: %v", transactionIDs)
	}
	if replayed != 1 {
		t.Fatalf("expected exactly one replayed result, got %d", replayed)
	}

	entries, err := fx.ledger.ListByTeam(context.Background(), "team-1")
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single ledger entry, got %d", len(entries))
	}
	if balance := teamBalance(t, fx.teams, "team-1"); balance != 400 {
		t.Fatalf("expected one debit, balance is %d", balance)
	}
}

func TestEconomyService_PurchasePack_InsufficientFunds(t *testing.T) {
	fx := newEconomyFixture(t, 50)

	_, err := fx.svc.PurchasePack(t.Context(), "user-1", "team-1", "pack-starter", "buy-1")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if balance := teamBalance(t, fx.teams, "team-1"); balance != 50 {
		t.Fatalf("failed purchase changed balance: %d", balance)
	}
	if items, _ := fx.userPacks.ListByTeam(t.Context(), "team-1"); len(items) != 0 {
		t.Fatalf("failed purchase minted a pack: %d", len(items))
	}
}

func TestEconomyService_PurchasePack_ForeignTeam(t *testing.T) {
	fx := newEconomyFixture(t, 500)

	_, err := fx.svc.PurchasePack(t.Context(), "user-2", "team-1", "pack-starter", "buy-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestEconomyService_OpenPack(t *testing.T) {
	fx := newEconomyFixture(t, 500)

	purchased, err := fx.svc.PurchasePack(t.Context(), "user-1", "team-1", "pack-starter", "buy-1")
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}

	opened, err := fx.svc.OpenPack(t.Context(), "user-1", purchased.UserPack.ID)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if len(opened.Cards) != 3 {
		t.Fatalf("starter pack granted %d cards, want 3", len(opened.Cards))
	}
	for _, granted := range opened.Cards {
		if granted.TeamID != "team-1" {
			t.Fatalf("card granted to wrong team: %s", granted.TeamID)
		}
		if granted.Status != card.StatusOwned {
			t.Fatalf("granted card not owned: %s", granted.Status)
		}
		if granted.CurrentRarity != card.RarityCommon {
			t.Fatalf("minted card should start at the lowest tier, got %s", granted.CurrentRarity)
		}
	}
	if opened.CoinsGranted != 25 {
		t.Fatalf("unexpected coin grant: %d", opened.CoinsGranted)
	}
	// 500 - 100 price + 25 pack coins.
	if balance := teamBalance(t, fx.teams, "team-1"); balance != 425 {
		t.Fatalf("unexpected balance after open: %d", balance)
	}
}

func TestEconomyService_OpenPack_SecondOpenGrantsNothing(t *testing.T) {
	fx := newEconomyFixture(t, 500)

	purchased, err := fx.svc.PurchasePack(t.Context(), "user-1", "team-1", "pack-starter", "buy-1")
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if _, err := fx.svc.OpenPack(t.Context(), "user-1", purchased.UserPack.ID); err != nil {
		t.Fatalf("first open failed: %v", err)
	}

	before, _ := fx.userCards.ListByTeam(t.Context(), "team-1")
	_, err = fx.svc.OpenPack(t.Context(), "user-1", purchased.UserPack.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	after, _ := fx.userCards.ListByTeam(t.Context(), "team-1")
	if len(after) != len(before) {
		t.Fatalf("second open granted cards: %d -> %d", len(before), len(after))
	}
}

func TestEconomyService_SellCard(t *testing.T) {
	fx := newEconomyFixture(t, 500)

	purchased, err := fx.svc.PurchasePack(t.Context(), "user-1", "team-1", "pack-starter", "buy-1")
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	opened, err := fx.svc.OpenPack(t.Context(), "user-1", purchased.UserPack.ID)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	subject := opened.Cards[0]
	balanceBefore := teamBalance(t, fx.teams, "team-1")

	sold, err := fx.svc.SellCard(t.Context(), "user-1", subject.ID, "sell-1")
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if sold.Card.Status != card.StatusSold {
		t.Fatalf("card not marked sold: %s", sold.Card.Status)
	}
	if sold.Transaction.Amount != subject.CurrentSellValue {
		t.Fatalf("unexpected sale amount: %d", sold.Transaction.Amount)
	}
	if balance := teamBalance(t, fx.teams, "team-1"); balance != balanceBefore+subject.CurrentSellValue {
		t.Fatalf("sale not credited: %d", balance)
	}

	// A sold card stays sold.
	if _, err := fx.svc.SellCard(t.Context(), "user-1", subject.ID, "sell-2"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on resell, got %v", err)
	}
}

func TestEconomyService_SellCard_DuplicateKeyCreditsOnce(t *testing.T) {
	fx := newEconomyFixture(t, 500)

	purchased, err := fx.svc.PurchasePack(t.Context(), "user-1", "team-1", "pack-starter", "buy-1")
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	opened, err := fx.svc.OpenPack(t.Context(), "user-1", purchased.UserPack.ID)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	subject := opened.Cards[0]
	if _, err := fx.svc.SellCard(t.Context(), "user-1", subject.ID, "sell-1"); err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	balance := teamBalance(t, fx.teams, "team-1")

	// Same key against a card that is now sold: the ledger already holds
	// the entry, so the prior result comes back without a second credit.
	transactions, err := fx.svc.ListTransactions(t.Context(), "user-1", "team-1")
	if err != nil {
		t.Fatalf("list transactions failed: %v", err)
	}
	saleCount := 0
	for _, tx := range transactions {
		if tx.IdempotencyKey == "sell-1" {
			saleCount++
		}
	}
	if saleCount != 1 {
		t.Fatalf("expected one sale entry, got %d", saleCount)
	}
	if teamBalance(t, fx.teams, "team-1") != balance {
		t.Fatal("balance changed without a new operation")
	}
}

// phantomDuplicateLedger reports every append as a duplicate while holding
// no prior entry, the shape of a torn write in the backing store.
type phantomDuplicateLedger struct {
	ledger.Repository
}

func (r *phantomDuplicateLedger) Append(_ context.Context, item ledger.Transaction) error {
	return fmt.Errorf("%w: %s", ledger.ErrDuplicateIdempotencyKey, item.IdempotencyKey)
}

func (r *phantomDuplicateLedger) GetByIdempotencyKey(context.Context, string, string) (ledger.Transaction, bool, error) {
	return ledger.Transaction{}, false, nil
}

func TestEconomyService_SellCard_DuplicateKeyWithoutPriorEntry(t *testing.T) {
	fx := newEconomyFixture(t, 500)

	purchased, err := fx.svc.PurchasePack(t.Context(), "user-1", "team-1", "pack-starter", "buy-1")
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	opened, err := fx.svc.OpenPack(t.Context(), "user-1", purchased.UserPack.ID)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	fx.svc.ledgerRepo = &phantomDuplicateLedger{Repository: fx.ledger}

	_, err = fx.svc.SellCard(t.Context(), "user-1", opened.Cards[0].ID, "sell-1")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestEconomyService_GrantCoins(t *testing.T) {
	fx := newEconomyFixture(t, 100)

	granted, err := fx.svc.GrantCoins(t.Context(), "team-1", 250, "week-reward:2025-w01", "grant-1")
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if granted.Amount != 250 {
		t.Fatalf("unexpected grant amount: %d", granted.Amount)
	}
	if balance := teamBalance(t, fx.teams, "team-1"); balance != 350 {
		t.Fatalf("unexpected balance after grant: %d", balance)
	}

	repeat, err := fx.svc.GrantCoins(t.Context(), "team-1", 250, "week-reward:2025-w01", "grant-1")
	if err != nil {
		t.Fatalf("repeated grant failed: %v", err)
	}
	if repeat.ID != granted.ID {
		t.Fatalf("repeat grant created a new transaction: %s != %s", repeat.ID, granted.ID)
	}
	if balance := teamBalance(t, fx.teams, "team-1"); balance != 350 {
		t.Fatalf("repeat grant credited twice: %d", balance)
	}
}
