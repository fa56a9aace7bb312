package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/zaferkucuk/oover-sync/internal/domain/fixture"
	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
)

// Dashboard is the admin overview: how much data we hold and how the
// latest runs went.
type Dashboard struct {
	Countries    int              `json:"countries"`
	Leagues      int              `json:"leagues"`
	Teams        int              `json:"teams"`
	Fixtures     int              `json:"fixtures"`
	LiveFixtures int              `json:"live_fixtures"`
	RecentRuns   []syncrun.Result `json:"recent_runs"`
}

type DashboardService struct {
	countries counter
	leagues   counter
	teams     counter
	fixtures  fixture.Repository
	runs      syncrun.Repository
}

type counter interface {
	Count(ctx context.Context) (int, error)
}

func NewDashboardService(
	countries counter,
	leagues counter,
	teams counter,
	fixtures fixture.Repository,
	runs syncrun.Repository,
) *DashboardService {
	return &DashboardService{
		countries: countries,
		leagues:   leagues,
		teams:     teams,
		fixtures:  fixtures,
		runs:      runs,
	}
}

// Get fans the independent count queries out and fails fast on the first
// storage error.
func (s *DashboardService) Get(ctx context.Context) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "DashboardService.Get")
	defer span.End()

	var out Dashboard
	group := pool.New().WithContext(ctx).WithCancelOnError()

	group.Go(func(ctx context.Context) error {
		count, err := s.countries.Count(ctx)
		if err != nil {
			return crerr.Wrap(err, "count countries")
		}
		out.Countries = count
		return nil
	})
	group.Go(func(ctx context.Context) error {
		count, err := s.leagues.Count(ctx)
		if err != nil {
			return crerr.Wrap(err, "count leagues")
		}
		out.Leagues = count
		return nil
	})
	group.Go(func(ctx context.Context) error {
		count, err := s.teams.Count(ctx)
		if err != nil {
			return crerr.Wrap(err, "count teams")
		}
		out.Teams = count
		return nil
	})
	group.Go(func(ctx context.Context) error {
		count, err := s.fixtures.Count(ctx)
		if err != nil {
			return crerr.Wrap(err, "count fixtures")
		}
		out.Fixtures = count
		return nil
	})
	group.Go(func(ctx context.Context) error {
		live, err := s.fixtures.List(ctx, fixture.ListFilter{Status: fixture.StatusLive})
		if err != nil {
			return crerr.Wrap(err, "list live fixtures")
		}
		out.LiveFixtures = len(live)
		return nil
	})
	group.Go(func(ctx context.Context) error {
		runs, err := s.runs.ListRecent(ctx, 10)
		if err != nil {
			return crerr.Wrap(err, "list recent runs")
		}
		out.RecentRuns = runs
		return nil
	})

	if err := group.Wait(); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}
