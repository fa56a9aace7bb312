package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/zaferkucuk/oover-sync/external/apifootball"
	"github.com/zaferkucuk/oover-sync/external/webhook"
	"github.com/zaferkucuk/oover-sync/internal/config"
	"github.com/zaferkucuk/oover-sync/internal/domain/country"
	"github.com/zaferkucuk/oover-sync/internal/domain/fixture"
	"github.com/zaferkucuk/oover-sync/internal/domain/league"
	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
	"github.com/zaferkucuk/oover-sync/internal/domain/team"
	"github.com/zaferkucuk/oover-sync/internal/infrastructure/repository/memory"
	"github.com/zaferkucuk/oover-sync/internal/infrastructure/repository/postgres"
	"github.com/zaferkucuk/oover-sync/internal/interfaces/httpapi"
	"github.com/zaferkucuk/oover-sync/internal/platform/logging"
	"github.com/zaferkucuk/oover-sync/internal/platform/resilience"
	"github.com/zaferkucuk/oover-sync/internal/transform"
	"github.com/zaferkucuk/oover-sync/internal/usecase"
)

// Repositories bundles the per-entity stores behind one seam so the
// http server and the CLI wire the same way against Postgres or memory.
type Repositories struct {
	Countries country.Repository
	Leagues   league.Repository
	Teams     team.Repository
	Fixtures  fixture.Repository
	Runs      syncrun.Repository

	db *sqlx.DB
}

func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// NewRepositories opens Postgres-backed stores when DB_URL is set and
// falls back to in-memory stores otherwise.
func NewRepositories(cfg config.Config, logger *logging.Logger) (*Repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("storage configured", "backend", "memory")
		return &Repositories{
			Countries: memory.NewCountryRepository(),
			Leagues:   memory.NewLeagueRepository(),
			Teams:     memory.NewTeamRepository(),
			Fixtures:  memory.NewFixtureRepository(),
			Runs:      memory.NewSyncRunRepository(),
		}, nil
	}

	db, err := OpenDB(cfg.DBURL)
	if err != nil {
		return nil, crerr.Wrap(err, "open database")
	}
	logger.Info("storage configured", "backend", "postgres", "db_name", dbNameFromURL(cfg.DBURL))

	return &Repositories{
		Countries: postgres.NewCountryRepository(db),
		Leagues:   postgres.NewLeagueRepository(db),
		Teams:     postgres.NewTeamRepository(db),
		Fixtures:  postgres.NewFixtureRepository(db),
		Runs:      postgres.NewSyncRunRepository(db),
		db:        db,
	}, nil
}

// NewFetchProvider builds the provider client, or a stub that rejects
// every fetch when the provider is disabled.
func NewFetchProvider(cfg config.Config, logger *logging.Logger) usecase.FetchProvider {
	if !cfg.APIFootballEnabled {
		logger.Info("fetch provider disabled", "reason", "APIFOOTBALL_ENABLED=false")
		return disabledProvider{}
	}

	return apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.APIFootballBaseURL,
		Token:      cfg.APIFootballToken,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: cfg.APIFootballMaxRetries,
		Budget: apifootball.BudgetConfig{
			RequestsPerMinute: cfg.APIFootballRequestsPerMinute,
			RequestsPerDay:    cfg.APIFootballRequestsPerDay,
			SafetyFraction:    cfg.APIFootballBudgetSafetyFraction,
		},
		CacheTTL: apifootball.CacheTTLConfig{
			Countries:    cfg.CacheTTLCountries,
			Leagues:      cfg.CacheTTLLeagues,
			Teams:        cfg.CacheTTLTeams,
			Fixtures:     cfg.CacheTTLFixtures,
			FixturesLive: cfg.CacheTTLFixturesLive,
		},
		Logger: logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			Cooldown:         cfg.APIFootballCircuitOpenTimeout,
			ProbeBudget:      cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})
}

// NewSyncService wires the full sync pipeline from config.
func NewSyncService(cfg config.Config, repos *Repositories, logger *logging.Logger) *usecase.SyncService {
	var notifier usecase.RunNotifier
	if cfg.WebhookURL != "" {
		notifier = webhook.NewNotifier(webhook.NotifierConfig{
			URL:     cfg.WebhookURL,
			Token:   cfg.WebhookToken,
			Timeout: cfg.WebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
			},
		}, logger)
	}

	return usecase.NewSyncService(usecase.SyncServiceDeps{
		Provider:  NewFetchProvider(cfg, logger),
		Countries: repos.Countries,
		Leagues:   repos.Leagues,
		Teams:     repos.Teams,
		Fixtures:  repos.Fixtures,
		Runs:      repos.Runs,
		Notifier:  notifier,
		Logger:    logger,
	})
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, *Repositories, error) {
	repos, err := NewRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	syncService := NewSyncService(cfg, repos, logger)
	catalogService := usecase.NewCatalogService(repos.Countries, repos.Leagues, repos.Teams, repos.Fixtures, repos.Runs)
	dashboardService := usecase.NewDashboardService(repos.Countries, repos.Leagues, repos.Teams, repos.Fixtures, repos.Runs)

	handler := httpapi.NewHandler(catalogService, dashboardService, syncService, cfg.SyncWorkers, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if server.Addr == "" {
		repos.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, repos, nil
}

type disabledProvider struct{}

func (disabledProvider) Fetch(context.Context, transform.Resource, usecase.FetchParams) (usecase.FetchResult, error) {
	return usecase.FetchResult{}, crerr.Wrap(usecase.ErrDependencyUnavailable, "fetch provider is disabled")
}
