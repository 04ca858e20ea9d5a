package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-cards/external/jobqueue"
	"github.com/riskibarqy/fantasy-cards/internal/config"
	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-cards/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-cards/internal/domain/pack"
	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
	"github.com/riskibarqy/fantasy-cards/internal/domain/stats"
	"github.com/riskibarqy/fantasy-cards/internal/domain/team"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	"github.com/riskibarqy/fantasy-cards/internal/domain/trend"
	"github.com/riskibarqy/fantasy-cards/internal/domain/week"
	"github.com/riskibarqy/fantasy-cards/internal/infrastructure/account/identity"
	"github.com/riskibarqy/fantasy-cards/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cards/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-cards/internal/interfaces/httpapi"
	"github.com/riskibarqy/fantasy-cards/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-cards/internal/platform/id"
	"github.com/riskibarqy/fantasy-cards/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cards/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cards/internal/platform/rng"
	"github.com/riskibarqy/fantasy-cards/internal/usecase"

	_ "github.com/lib/pq"
)

// repositories bundles every store the services need, so the memory
// and postgres wirings stay interchangeable.
type repositories struct {
	teamRepo      team.Repository
	playerRepo    player.Repository
	weekRepo      week.Repository
	cardCatalog   card.CatalogRepository
	userCardRepo  card.UserCardRepository
	tokenCatalog  token.CatalogRepository
	userTokenRepo token.UserTokenRepository
	packCatalog   pack.CatalogRepository
	userPackRepo  pack.UserPackRepository
	lineupRepo    lineup.Repository
	statsRepo     stats.Repository
	trendRepo     trend.Repository
	ledgerRepo    ledger.Repository
	uow           ledger.UnitOfWork
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	ids := idgen.NewRandomGenerator()
	roller := pack.NewRoller(rng.NewTimeSeeded())

	economySvc := usecase.NewEconomyService(
		repos.teamRepo,
		repos.packCatalog,
		repos.userPackRepo,
		repos.cardCatalog,
		repos.userCardRepo,
		repos.tokenCatalog,
		repos.userTokenRepo,
		repos.ledgerRepo,
		repos.uow,
		roller,
		ids,
		logger,
	)
	lineupSvc := usecase.NewLineupService(
		repos.teamRepo,
		repos.weekRepo,
		repos.lineupRepo,
		repos.userCardRepo,
		repos.cardCatalog,
		repos.playerRepo,
		repos.userTokenRepo,
		ids,
		logger,
	)
	scoringSvc := usecase.NewScoringService(
		repos.weekRepo,
		repos.lineupRepo,
		repos.userCardRepo,
		repos.playerRepo,
		repos.statsRepo,
		repos.userTokenRepo,
		repos.tokenCatalog,
		repos.uow,
		logger,
	)
	trendSvc := usecase.NewTrendService(repos.playerRepo, repos.statsRepo, repos.trendRepo, logger)
	collectionSvc := usecase.NewCollectionService(
		repos.teamRepo,
		repos.userCardRepo,
		repos.userPackRepo,
		repos.userTokenRepo,
		repos.packCatalog,
		repos.weekRepo,
		cacheStore,
	)

	verifier := identity.NewClient(identity.ClientConfig{
		BaseURL:        cfg.AuthBaseURL,
		IntrospectPath: cfg.AuthIntrospectPath,
		ServiceKey:     cfg.AuthServiceKey,
		Timeout:        cfg.AuthTimeout,
		CacheTTL:       cfg.AuthCacheTTL,
		CacheMaxSize:   cfg.AuthCacheMaxEntries,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AuthCircuitEnabled,
			FailureThreshold: cfg.AuthCircuitFailureCount,
			OpenTimeout:      cfg.AuthCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AuthCircuitHalfOpenMax,
		},
	}, logger)

	handler := httpapi.NewHandler(economySvc, lineupSvc, scoringSvc, trendSvc, collectionSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.QStashEnabled {
		publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)

		scheduler := newJobScheduler(publisher, repos.weekRepo, jobSchedulerConfig{
			Interval:   cfg.JobScheduleInterval,
			ScoreDelay: cfg.JobScoreDelay,
			TrendDelay: cfg.JobTrendDelay,
		}, logger)

		schedulerCtx, stopScheduler := context.WithCancel(context.Background())
		server.RegisterOnShutdown(stopScheduler)
		go scheduler.Run(schedulerCtx)
	}

	return server, nil
}

func buildRepositories(cfg config.Config) (repositories, error) {
	if cfg.DBURL == "" {
		return buildMemoryRepositories(), nil
	}
	return buildPostgresRepositories(cfg)
}

// buildMemoryRepositories wires seeded in-memory stores. Used for local
// development and as the fallback when no database is configured.
func buildMemoryRepositories() repositories {
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	userCardRepo := memory.NewUserCardRepository()
	userTokenRepo := memory.NewUserTokenRepository()
	userPackRepo := memory.NewUserPackRepository()
	lineupRepo := memory.NewLineupRepository()
	ledgerRepo := memory.NewLedgerRepository()

	return repositories{
		teamRepo:      teamRepo,
		playerRepo:    memory.NewPlayerRepository(memory.SeedPlayers()),
		weekRepo:      memory.NewWeekRepository(memory.SeedWeeks()),
		cardCatalog:   memory.NewCardCatalogRepository(memory.SeedCards()),
		userCardRepo:  userCardRepo,
		tokenCatalog:  memory.NewTokenCatalogRepository(memory.SeedTokenTypes()),
		userTokenRepo: userTokenRepo,
		packCatalog:   memory.NewPackCatalogRepository(memory.SeedPacks()),
		userPackRepo:  userPackRepo,
		lineupRepo:    lineupRepo,
		statsRepo:     memory.NewStatsRepository(memory.SeedWeeks(), memory.SeedGameStats()),
		trendRepo:     memory.NewTrendRepository(),
		ledgerRepo:    ledgerRepo,
		uow:           memory.NewUnitOfWork(teamRepo, userCardRepo, userTokenRepo, userPackRepo, lineupRepo, ledgerRepo),
	}
}

func buildPostgresRepositories(cfg config.Config) (repositories, error) {
	db, err := connectPostgres(cfg)
	if err != nil {
		return repositories{}, err
	}

	return repositories{
		teamRepo:      postgres.NewTeamRepository(db),
		playerRepo:    postgres.NewPlayerRepository(db),
		weekRepo:      postgres.NewWeekRepository(db),
		cardCatalog:   postgres.NewCardCatalogRepository(db),
		userCardRepo:  postgres.NewUserCardRepository(db),
		tokenCatalog:  postgres.NewTokenCatalogRepository(db),
		userTokenRepo: postgres.NewUserTokenRepository(db),
		packCatalog:   postgres.NewPackCatalogRepository(db),
		userPackRepo:  postgres.NewUserPackRepository(db),
		lineupRepo:    postgres.NewLineupRepository(db),
		statsRepo:     postgres.NewStatsRepository(db),
		trendRepo:     postgres.NewTrendRepository(db),
		ledgerRepo:    postgres.NewLedgerRepository(db),
		uow:           postgres.NewTxRunner(db),
	}, nil
}

func connectPostgres(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}
