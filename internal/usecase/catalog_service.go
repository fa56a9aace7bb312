package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/zaferkucuk/oover-sync/internal/domain/country"
	"github.com/zaferkucuk/oover-sync/internal/domain/fixture"
	"github.com/zaferkucuk/oover-sync/internal/domain/league"
	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
	"github.com/zaferkucuk/oover-sync/internal/domain/team"
)

const maxRunHistory = 100

// CatalogService serves the read side of the admin API.
type CatalogService struct {
	countries country.Repository
	leagues   league.Repository
	teams     team.Repository
	fixtures  fixture.Repository
	runs      syncrun.Repository
}

func NewCatalogService(
	countries country.Repository,
	leagues league.Repository,
	teams team.Repository,
	fixtures fixture.Repository,
	runs syncrun.Repository,
) *CatalogService {
	return &CatalogService{
		countries: countries,
		leagues:   leagues,
		teams:     teams,
		fixtures:  fixtures,
		runs:      runs,
	}
}

func (s *CatalogService) ListCountries(ctx context.Context) ([]country.Country, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListCountries")
	defer span.End()
	return s.countries.List(ctx)
}

// ListLeagues filters by season when season is positive.
func (s *CatalogService) ListLeagues(ctx context.Context, season int) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListLeagues")
	defer span.End()
	if season < 0 {
		return nil, crerr.Wrapf(ErrInvalidInput, "season must not be negative, got %d", season)
	}
	return s.leagues.List(ctx, season)
}

func (s *CatalogService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListTeams")
	defer span.End()
	return s.teams.List(ctx)
}

func (s *CatalogService) ListFixtures(ctx context.Context, filter fixture.ListFilter) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListFixtures")
	defer span.End()
	if filter.Status != "" && !fixture.IsValidStatus(filter.Status) {
		return nil, crerr.Wrapf(ErrInvalidInput, "unknown status %q", filter.Status)
	}
	return s.fixtures.List(ctx, filter)
}

func (s *CatalogService) GetFixture(ctx context.Context, externalID string) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.GetFixture")
	defer span.End()
	if externalID == "" {
		return fixture.Fixture{}, crerr.Wrap(ErrInvalidInput, "external id is required")
	}
	item, found, err := s.fixtures.GetByExternalID(ctx, externalID)
	if err != nil {
		return fixture.Fixture{}, crerr.Wrap(err, "get fixture")
	}
	if !found {
		return fixture.Fixture{}, crerr.Wrapf(ErrNotFound, "fixture %s", externalID)
	}
	return item, nil
}

func (s *CatalogService) ListRuns(ctx context.Context, limit int) ([]syncrun.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListRuns")
	defer span.End()
	if limit <= 0 {
		limit = 20
	}
	if limit > maxRunHistory {
		limit = maxRunHistory
	}
	return s.runs.ListRecent(ctx, limit)
}
