package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaferkucuk/oover-sync/internal/domain/fixture"
	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
	"github.com/zaferkucuk/oover-sync/internal/infrastructure/repository/memory"
	"github.com/zaferkucuk/oover-sync/internal/platform/logging"
	"github.com/zaferkucuk/oover-sync/internal/transform"
	"github.com/zaferkucuk/oover-sync/internal/usecase"
)

type stubProvider struct {
	fetch func(ctx context.Context, resource transform.Resource, params usecase.FetchParams) (usecase.FetchResult, error)
}

func (p *stubProvider) Fetch(ctx context.Context, resource transform.Resource, params usecase.FetchParams) (usecase.FetchResult, error) {
	return p.fetch(ctx, resource, params)
}

type harness struct {
	provider  *stubProvider
	countries *memory.CountryRepository
	leagues   *memory.LeagueRepository
	teams     *memory.TeamRepository
	fixtures  *memory.FixtureRepository
	runs      *memory.SyncRunRepository
	service   *usecase.SyncService
}

func newHarness() *harness {
	h := &harness{
		provider:  &stubProvider{},
		countries: memory.NewCountryRepository(),
		leagues:   memory.NewLeagueRepository(),
		teams:     memory.NewTeamRepository(),
		fixtures:  memory.NewFixtureRepository(),
		runs:      memory.NewSyncRunRepository(),
	}
	h.service = usecase.NewSyncService(usecase.SyncServiceDeps{
		Provider:  h.provider,
		Countries: h.countries,
		Leagues:   h.leagues,
		Teams:     h.teams,
		Fixtures:  h.fixtures,
		Runs:      h.runs,
		Logger:    logging.NewNop(),
	})
	return h
}

func records(items ...string) usecase.FetchResult {
	out := usecase.FetchResult{}
	for _, item := range items {
		out.Records = append(out.Records, transform.Record(item))
	}
	return out
}

func countryRecord(name string) string {
	return fmt.Sprintf(`{"name":%q,"code":"XX","flag":""}`, name)
}

func leagueRecord(id int, name, countryName string, season int) string {
	return fmt.Sprintf(`{
		"league":{"id":%d,"name":%q,"type":"League","logo":""},
		"country":{"name":%q},
		"seasons":[{"year":%d,"current":true}]
	}`, id, name, countryName, season)
}

func teamRecord(id int, name, countryName string) string {
	return fmt.Sprintf(`{
		"team":{"id":%d,"name":%q,"code":"","country":%q,"founded":1900,"logo":""},
		"venue":{"name":"Stadium"}
	}`, id, name, countryName)
}

func fixtureRecord(id, leagueID, season, homeID, awayID int, status string) string {
	return fmt.Sprintf(`{
		"fixture":{"id":%d,"referee":"","date":"2026-08-20T18:00:00+00:00","status":{"short":%q,"elapsed":null},"venue":{"name":"Stadium"}},
		"league":{"id":%d,"season":%d},
		"teams":{"home":{"id":%d},"away":{"id":%d}},
		"goals":{"home":null,"away":null}
	}`, id, status, leagueID, season, homeID, awayID)
}

// seedReferences runs country, league and team syncs so fixture syncs
// can resolve every reference.
func (h *harness) seedReferences(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	h.provider.fetch = func(_ context.Context, resource transform.Resource, _ usecase.FetchParams) (usecase.FetchResult, error) {
		switch resource {
		case transform.ResourceCountry:
			return records(countryRecord("England")), nil
		case transform.ResourceLeague:
			return records(leagueRecord(39, "Premier League", "England", 2026)), nil
		case transform.ResourceTeam:
			return records(teamRecord(33, "Manchester United", "England"), teamRecord(40, "Liverpool", "England")), nil
		default:
			return usecase.FetchResult{}, fmt.Errorf("unexpected resource %s", resource)
		}
	}
	for _, resource := range []transform.Resource{transform.ResourceCountry, transform.ResourceLeague, transform.ResourceTeam} {
		run, err := h.service.Sync(ctx, resource, usecase.FetchParams{})
		require.NoError(t, err)
		require.Equal(t, syncrun.StateDone, run.State)
		require.Zero(t, run.Failed)
	}
}

func TestSync_CountriesCreateThenSkip(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()

	h.provider.fetch = func(context.Context, transform.Resource, usecase.FetchParams) (usecase.FetchResult, error) {
		return records(countryRecord("England"), countryRecord("France")), nil
	}

	first, err := h.service.Sync(ctx, transform.ResourceCountry, usecase.FetchParams{})
	require.NoError(t, err)
	require.Equal(t, syncrun.StateDone, first.State)
	require.Equal(t, 2, first.Processed)
	require.Equal(t, 2, first.Created)
	require.Zero(t, first.Updated)

	second, err := h.service.Sync(ctx, transform.ResourceCountry, usecase.FetchParams{})
	require.NoError(t, err)
	require.Equal(t, 2, second.Skipped)
	require.Zero(t, second.Created)
	require.Zero(t, second.Updated)

	count, err := h.countries.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestSync_UpdatesChangedRow(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()

	name := "England"
	h.provider.fetch = func(context.Context, transform.Resource, usecase.FetchParams) (usecase.FetchResult, error) {
		return records(fmt.Sprintf(`{"name":%q,"code":"GB","flag":""}`, name)), nil
	}

	_, err := h.service.Sync(ctx, transform.ResourceCountry, usecase.FetchParams{})
	require.NoError(t, err)

	stored, found, err := h.countries.GetByExternalID(ctx, "england")
	require.NoError(t, err)
	require.True(t, found)
	firstID := stored.ID

	name = "ENGLAND"
	run, err := h.service.Sync(ctx, transform.ResourceCountry, usecase.FetchParams{})
	require.NoError(t, err)
	require.Equal(t, 1, run.Updated)

	stored, _, err = h.countries.GetByExternalID(ctx, "england")
	require.NoError(t, err)
	require.Equal(t, "ENGLAND", stored.Name)
	require.Equal(t, firstID, stored.ID, "update must keep the internal primary key")
}

func TestSync_BadRecordDoesNotAbortRun(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.seedReferences(t)
	ctx := context.Background()

	h.provider.fetch = func(context.Context, transform.Resource, usecase.FetchParams) (usecase.FetchResult, error) {
		return records(
			fixtureRecord(101, 39, 2026, 33, 40, "NS"),
			fixtureRecord(102, 39, 2026, 40, 33, "XYZ"),
			fixtureRecord(103, 39, 2026, 33, 40, "FT"),
		), nil
	}

	run, err := h.service.Sync(ctx, transform.ResourceFixture, usecase.FetchParams{})
	require.NoError(t, err)
	require.Equal(t, syncrun.StateDone, run.State)
	require.Equal(t, 3, run.Processed)
	require.Equal(t, 2, run.Created)
	require.Equal(t, 1, run.Failed)
	require.Len(t, run.Errors, 1)
	require.Equal(t, "102", run.Errors[0].ExternalID)
	require.Equal(t, syncrun.StageTransform, run.Errors[0].Stage)

	count, err := h.fixtures.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestSync_UnresolvedReferenceIsRecordFailure(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.seedReferences(t)
	ctx := context.Background()

	h.provider.fetch = func(context.Context, transform.Resource, usecase.FetchParams) (usecase.FetchResult, error) {
		return records(fixtureRecord(201, 999, 2026, 33, 40, "NS")), nil
	}

	run, err := h.service.Sync(ctx, transform.ResourceFixture, usecase.FetchParams{})
	require.NoError(t, err)
	require.Equal(t, syncrun.StateDone, run.State)
	require.Equal(t, 1, run.Failed)
	require.Equal(t, syncrun.StageResolve, run.Errors[0].Stage)
	require.Contains(t, run.Errors[0].Message, "league 999")
}

func TestSync_FetchFailureFailsRun(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()

	h.provider.fetch = func(context.Context, transform.Resource, usecase.FetchParams) (usecase.FetchResult, error) {
		return usecase.FetchResult{}, fmt.Errorf("%w: provider down", usecase.ErrTransientFetch)
	}

	run, err := h.service.Sync(ctx, transform.ResourceCountry, usecase.FetchParams{})
	require.Error(t, err)
	require.True(t, errors.Is(err, usecase.ErrTransientFetch))
	require.Equal(t, syncrun.StateFailed, run.State)
	require.False(t, run.FinishedAt.IsZero())

	audited, err := h.runs.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, audited, 1)
	require.Equal(t, syncrun.StateFailed, audited[0].State)
}

func TestSync_ContextExpirySetsTimedOut(t *testing.T) {
	t.Parallel()
	h := newHarness()

	ctx, cancel := context.WithCancel(context.Background())
	h.provider.fetch = func(context.Context, transform.Resource, usecase.FetchParams) (usecase.FetchResult, error) {
		cancel()
		return records(countryRecord("England"), countryRecord("France")), nil
	}

	run, err := h.service.Sync(ctx, transform.ResourceCountry, usecase.FetchParams{})
	require.NoError(t, err)
	require.True(t, run.TimedOut)
	require.Equal(t, syncrun.StateDone, run.State)
	require.Zero(t, run.Processed)
}

func TestSync_RunIsAudited(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()

	h.provider.fetch = func(context.Context, transform.Resource, usecase.FetchParams) (usecase.FetchResult, error) {
		return records(countryRecord("England")), nil
	}

	run, err := h.service.Sync(ctx, transform.ResourceCountry, usecase.FetchParams{})
	require.NoError(t, err)

	audited, err := h.runs.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, audited, 1)
	require.Equal(t, run.RunID, audited[0].RunID)
	require.Equal(t, 1, audited[0].Created)
}

func TestSyncLive_NarrowUpdate(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.seedReferences(t)
	ctx := context.Background()

	h.provider.fetch = func(context.Context, transform.Resource, usecase.FetchParams) (usecase.FetchResult, error) {
		return records(fixtureRecord(301, 39, 2026, 33, 40, "NS")), nil
	}
	_, err := h.service.Sync(ctx, transform.ResourceFixture, usecase.FetchParams{})
	require.NoError(t, err)

	liveRecord := `{
		"fixture":{"id":301,"referee":"","date":"2026-08-20T18:00:00+00:00","status":{"short":"1H","elapsed":23},"venue":{"name":"Somewhere Else"}},
		"league":{"id":39,"season":2026},
		"teams":{"home":{"id":33},"away":{"id":40}},
		"goals":{"home":1,"away":0}
	}`
	unknownRecord := fixtureRecord(999, 39, 2026, 33, 40, "1H")
	h.provider.fetch = func(_ context.Context, resource transform.Resource, params usecase.FetchParams) (usecase.FetchResult, error) {
		require.True(t, params.Live)
		require.Equal(t, transform.ResourceFixture, resource)
		return records(liveRecord, unknownRecord), nil
	}

	run, err := h.service.SyncLive(ctx, usecase.FetchParams{})
	require.NoError(t, err)
	require.Equal(t, syncrun.StateDone, run.State)
	require.Equal(t, 1, run.Updated)
	require.Equal(t, 1, run.Failed)
	require.Equal(t, "999", run.Errors[0].ExternalID)

	stored, found, err := h.fixtures.GetByExternalID(ctx, "301")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, fixture.StatusLive, stored.Status)
	require.NotNil(t, stored.HomeScore)
	require.Equal(t, 1, *stored.HomeScore)
	require.Equal(t, "Stadium", stored.VenueName, "live sync must not rewrite non-live columns")

	rerun, err := h.service.SyncLive(ctx, usecase.FetchParams{})
	require.NoError(t, err)
	require.Equal(t, 1, rerun.Skipped, "identical live state must be skipped")
	require.Zero(t, rerun.Updated)
}

func TestDeactivate_IsExplicitAndSticky(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()

	h.provider.fetch = func(context.Context, transform.Resource, usecase.FetchParams) (usecase.FetchResult, error) {
		return records(countryRecord("England"), countryRecord("France")), nil
	}
	_, err := h.service.Sync(ctx, transform.ResourceCountry, usecase.FetchParams{})
	require.NoError(t, err)

	affected, err := h.service.Deactivate(ctx, transform.ResourceCountry, []string{"france"})
	require.NoError(t, err)
	require.Equal(t, 1, affected)

	// The provider still sends the row; the flag must survive the sync.
	run, err := h.service.Sync(ctx, transform.ResourceCountry, usecase.FetchParams{})
	require.NoError(t, err)
	require.Equal(t, 2, run.Skipped)

	stored, _, err := h.countries.GetByExternalID(ctx, "france")
	require.NoError(t, err)
	require.False(t, stored.IsActive)
}

func TestSyncAll_RespectsDependencyOrder(t *testing.T) {
	t.Parallel()
	h := newHarness()
	ctx := context.Background()

	h.provider.fetch = func(_ context.Context, resource transform.Resource, _ usecase.FetchParams) (usecase.FetchResult, error) {
		switch resource {
		case transform.ResourceCountry:
			return records(countryRecord("England")), nil
		case transform.ResourceLeague:
			return records(leagueRecord(39, "Premier League", "England", 2026)), nil
		case transform.ResourceTeam:
			return records(teamRecord(33, "Manchester United", "England"), teamRecord(40, "Liverpool", "England")), nil
		case transform.ResourceFixture:
			return records(fixtureRecord(401, 39, 2026, 33, 40, "NS")), nil
		default:
			return usecase.FetchResult{}, fmt.Errorf("unexpected resource %s", resource)
		}
	}

	out, err := h.service.SyncAll(ctx, usecase.FetchParams{Season: 2026}, 2)
	require.NoError(t, err)
	require.Len(t, out.Runs, 4)
	require.False(t, out.Failed())
	require.Equal(t, "country", out.Runs[0].Resource)
	require.Equal(t, "fixture", out.Runs[3].Resource)
	for _, run := range out.Runs {
		require.Equal(t, syncrun.StateDone, run.State)
		require.Zero(t, run.Failed, "resource %s", run.Resource)
	}
}
