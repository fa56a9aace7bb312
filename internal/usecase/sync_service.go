package usecase

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/zaferkucuk/oover-sync/internal/domain/country"
	"github.com/zaferkucuk/oover-sync/internal/domain/fixture"
	"github.com/zaferkucuk/oover-sync/internal/domain/league"
	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
	"github.com/zaferkucuk/oover-sync/internal/domain/team"
	"github.com/zaferkucuk/oover-sync/internal/platform/logging"
	"github.com/zaferkucuk/oover-sync/internal/transform"
)

// SyncService drives one synchronization run per resource type: fetch,
// transform, resolve references, persist. A bad record is reported and
// skipped; only run-level failures (fetch, storage outage) abort a run.
type SyncService struct {
	provider  FetchProvider
	countries country.Repository
	leagues   league.Repository
	teams     team.Repository
	fixtures  fixture.Repository
	runs      syncrun.Repository
	notifier  RunNotifier
	logger    *logging.Logger
	now       func() time.Time
	newRunID  func() string
}

type SyncServiceDeps struct {
	Provider  FetchProvider
	Countries country.Repository
	Leagues   league.Repository
	Teams     team.Repository
	Fixtures  fixture.Repository
	Runs      syncrun.Repository
	Notifier  RunNotifier
	Logger    *logging.Logger
}

func NewSyncService(deps SyncServiceDeps) *SyncService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		provider:  deps.Provider,
		countries: deps.Countries,
		leagues:   deps.Leagues,
		teams:     deps.Teams,
		fixtures:  deps.Fixtures,
		runs:      deps.Runs,
		notifier:  deps.Notifier,
		logger:    logger,
		now:       time.Now,
		newRunID:  func() string { return uuid.NewString() },
	}
}

// Sync executes one full run for the given resource. The returned result
// is always populated, also when err is non-nil; callers get the partial
// counters and the audit log gets the same row.
func (s *SyncService) Sync(ctx context.Context, resource transform.Resource, params FetchParams) (syncrun.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.Sync")
	defer span.End()

	run := syncrun.Result{
		RunID:     s.newRunID(),
		Resource:  string(resource),
		State:     syncrun.StateFetching,
		StartedAt: s.now(),
	}
	logger := s.logger.With("run_id", run.RunID, "resource", run.Resource)
	logger.InfoContext(ctx, "sync run started")

	fetched, err := s.provider.Fetch(ctx, resource, params)
	if err != nil {
		return s.finishFailed(ctx, run, logger, crerr.Wrapf(err, "fetch %s", resource))
	}
	logger.InfoContext(ctx, "fetch completed",
		"records", len(fetched.Records),
		"requests", fetched.Meta.Requests,
		"cache_ttl", fetched.Meta.CacheTTL,
	)

	run.State = syncrun.StateTransforming
	var persistErr error
	switch resource {
	case transform.ResourceCountry:
		persistErr = s.runCountries(ctx, &run, fetched.Records)
	case transform.ResourceLeague:
		persistErr = s.runLeagues(ctx, &run, fetched.Records)
	case transform.ResourceTeam:
		persistErr = s.runTeams(ctx, &run, fetched.Records)
	case transform.ResourceFixture:
		persistErr = s.runFixtures(ctx, &run, fetched.Records)
	default:
		persistErr = crerr.Wrapf(ErrInvalidInput, "unknown resource %q", resource)
	}
	if persistErr != nil {
		return s.finishFailed(ctx, run, logger, persistErr)
	}

	run.State = syncrun.StateDone
	return s.finish(ctx, run, logger), nil
}

// SyncLive refreshes only the live-mutable fixture columns. Fixtures the
// provider reports but the store has never seen are a per-record failure,
// never an insert; the full fixture sync owns row creation.
func (s *SyncService) SyncLive(ctx context.Context, params FetchParams) (syncrun.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.SyncLive")
	defer span.End()

	params.Live = true
	run := syncrun.Result{
		RunID:     s.newRunID(),
		Resource:  "fixture_live",
		State:     syncrun.StateFetching,
		StartedAt: s.now(),
	}
	logger := s.logger.With("run_id", run.RunID, "resource", run.Resource)
	logger.InfoContext(ctx, "live sync run started")

	fetched, err := s.provider.Fetch(ctx, transform.ResourceFixture, params)
	if err != nil {
		return s.finishFailed(ctx, run, logger, crerr.Wrap(err, "fetch live fixtures"))
	}

	run.State = syncrun.StateTransforming
	for _, rec := range fetched.Records {
		if s.timedOut(ctx, &run) {
			break
		}
		run.Processed++

		normalized, err := transform.Fixture(rec)
		if err != nil {
			run.RecordFailure(externalIDOf(err), syncrun.StageTransform, err)
			continue
		}

		run.State = syncrun.StatePersisting
		existing, found, err := s.fixtures.GetByExternalID(ctx, normalized.ExternalID)
		if err != nil {
			return s.finishFailed(ctx, run, logger, crerr.Wrap(err, "load fixture"))
		}
		if !found {
			run.RecordFailure(normalized.ExternalID, syncrun.StagePersist,
				fmt.Errorf("fixture not present in store, run a full fixture sync first"))
			continue
		}

		state := fixture.LiveState{
			ExternalID: normalized.ExternalID,
			Status:     normalized.Status,
			Elapsed:    normalized.Elapsed,
			HomeScore:  normalized.HomeScore,
			AwayScore:  normalized.AwayScore,
		}
		if existing.LiveState().Equal(state) {
			run.Skipped++
			continue
		}
		if err := s.fixtures.UpdateLiveState(ctx, state); err != nil {
			return s.finishFailed(ctx, run, logger, crerr.Wrap(err, "update live state"))
		}
		run.Updated++
	}

	run.State = syncrun.StateDone
	return s.finish(ctx, run, logger), nil
}

func (s *SyncService) runCountries(ctx context.Context, run *syncrun.Result, records []transform.Record) error {
	for _, rec := range records {
		if s.timedOut(ctx, run) {
			return nil
		}
		run.Processed++

		run.State = syncrun.StateTransforming
		normalized, err := transform.Country(rec)
		if err != nil {
			run.RecordFailure(externalIDOf(err), syncrun.StageTransform, err)
			continue
		}

		run.State = syncrun.StatePersisting
		desired := country.Country{
			ExternalID: normalized.ExternalID,
			Name:       normalized.Name,
			Code:       normalized.Code,
			FlagURL:    normalized.FlagURL,
			IsActive:   true,
		}
		outcome, err := upsert(ctx, s.countries, desired.ExternalID, desired, mergeCountry)
		if err != nil {
			return crerr.Wrapf(err, "persist country %s", normalized.ExternalID)
		}
		run.Count(outcome)
	}
	return nil
}

func (s *SyncService) runLeagues(ctx context.Context, run *syncrun.Result, records []transform.Record) error {
	for _, rec := range records {
		if s.timedOut(ctx, run) {
			return nil
		}
		run.Processed++

		run.State = syncrun.StateTransforming
		normalized, err := transform.League(rec)
		if err != nil {
			run.RecordFailure(externalIDOf(err), syncrun.StageTransform, err)
			continue
		}

		run.State = syncrun.StateResolving
		parent, found, err := s.countries.GetByExternalID(ctx, normalized.CountryExternalID)
		if err != nil {
			return crerr.Wrap(err, "resolve league country")
		}
		if !found {
			run.RecordFailure(normalized.ExternalID, syncrun.StageResolve,
				crerr.Wrapf(ErrForeignKeyUnresolved, "country %s", normalized.CountryExternalID))
			continue
		}

		run.State = syncrun.StatePersisting
		desired := league.League{
			ExternalID:        normalized.ExternalID,
			Name:              normalized.Name,
			Type:              normalized.Type,
			Season:            normalized.Season,
			LogoURL:           normalized.LogoURL,
			CountryID:         parent.ID,
			CountryExternalID: normalized.CountryExternalID,
			IsActive:          true,
		}
		outcome, err := upsert(ctx, s.leagues, desired.ExternalID, desired, mergeLeague)
		if err != nil {
			return crerr.Wrapf(err, "persist league %s", normalized.ExternalID)
		}
		run.Count(outcome)
	}
	return nil
}

func (s *SyncService) runTeams(ctx context.Context, run *syncrun.Result, records []transform.Record) error {
	for _, rec := range records {
		if s.timedOut(ctx, run) {
			return nil
		}
		run.Processed++

		run.State = syncrun.StateTransforming
		normalized, err := transform.Team(rec)
		if err != nil {
			run.RecordFailure(externalIDOf(err), syncrun.StageTransform, err)
			continue
		}

		run.State = syncrun.StateResolving
		parent, found, err := s.countries.GetByExternalID(ctx, normalized.CountryExternalID)
		if err != nil {
			return crerr.Wrap(err, "resolve team country")
		}
		if !found {
			run.RecordFailure(normalized.ExternalID, syncrun.StageResolve,
				crerr.Wrapf(ErrForeignKeyUnresolved, "country %s", normalized.CountryExternalID))
			continue
		}

		run.State = syncrun.StatePersisting
		desired := team.Team{
			ExternalID:        normalized.ExternalID,
			Name:              normalized.Name,
			Code:              normalized.Code,
			Founded:           normalized.Founded,
			VenueName:         normalized.VenueName,
			LogoURL:           normalized.LogoURL,
			CountryID:         parent.ID,
			CountryExternalID: normalized.CountryExternalID,
			IsActive:          true,
		}
		outcome, err := upsert(ctx, s.teams, desired.ExternalID, desired, mergeTeam)
		if err != nil {
			return crerr.Wrapf(err, "persist team %s", normalized.ExternalID)
		}
		run.Count(outcome)
	}
	return nil
}

func (s *SyncService) runFixtures(ctx context.Context, run *syncrun.Result, records []transform.Record) error {
	for _, rec := range records {
		if s.timedOut(ctx, run) {
			return nil
		}
		run.Processed++

		run.State = syncrun.StateTransforming
		normalized, err := transform.Fixture(rec)
		if err != nil {
			run.RecordFailure(externalIDOf(err), syncrun.StageTransform, err)
			continue
		}

		run.State = syncrun.StateResolving
		lg, found, err := s.leagues.GetByExternalID(ctx, normalized.LeagueExternalID)
		if err != nil {
			return crerr.Wrap(err, "resolve fixture league")
		}
		if !found {
			run.RecordFailure(normalized.ExternalID, syncrun.StageResolve,
				crerr.Wrapf(ErrForeignKeyUnresolved, "league %s", normalized.LeagueExternalID))
			continue
		}
		home, found, err := s.teams.GetByExternalID(ctx, normalized.HomeTeamExternalID)
		if err != nil {
			return crerr.Wrap(err, "resolve home team")
		}
		if !found {
			run.RecordFailure(normalized.ExternalID, syncrun.StageResolve,
				crerr.Wrapf(ErrForeignKeyUnresolved, "home team %s", normalized.HomeTeamExternalID))
			continue
		}
		away, found, err := s.teams.GetByExternalID(ctx, normalized.AwayTeamExternalID)
		if err != nil {
			return crerr.Wrap(err, "resolve away team")
		}
		if !found {
			run.RecordFailure(normalized.ExternalID, syncrun.StageResolve,
				crerr.Wrapf(ErrForeignKeyUnresolved, "away team %s", normalized.AwayTeamExternalID))
			continue
		}

		run.State = syncrun.StatePersisting
		desired := fixture.Fixture{
			ExternalID:         normalized.ExternalID,
			LeagueID:           lg.ID,
			LeagueExternalID:   normalized.LeagueExternalID,
			Season:             normalized.Season,
			HomeTeamID:         home.ID,
			HomeTeamExternalID: normalized.HomeTeamExternalID,
			AwayTeamID:         away.ID,
			AwayTeamExternalID: normalized.AwayTeamExternalID,
			KickoffAt:          normalized.KickoffAt,
			Status:             normalized.Status,
			Elapsed:            normalized.Elapsed,
			HomeScore:          normalized.HomeScore,
			AwayScore:          normalized.AwayScore,
			VenueName:          normalized.VenueName,
			Referee:            normalized.Referee,
			IsActive:           true,
		}
		outcome, err := upsert(ctx, s.fixtures, desired.ExternalID, desired, mergeFixture)
		if err != nil {
			return crerr.Wrapf(err, "persist fixture %s", normalized.ExternalID)
		}
		run.Count(outcome)
	}
	return nil
}

// Deactivate flips rows to inactive by external id. This is the only way
// a row loses IsActive; absence from a provider batch never does.
func (s *SyncService) Deactivate(ctx context.Context, resource transform.Resource, externalIDs []string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.Deactivate")
	defer span.End()

	if len(externalIDs) == 0 {
		return 0, crerr.Wrap(ErrInvalidInput, "no external ids given")
	}
	switch resource {
	case transform.ResourceCountry:
		return s.countries.DeactivateByExternalIDs(ctx, externalIDs)
	case transform.ResourceLeague:
		return s.leagues.DeactivateByExternalIDs(ctx, externalIDs)
	case transform.ResourceTeam:
		return s.teams.DeactivateByExternalIDs(ctx, externalIDs)
	case transform.ResourceFixture:
		return s.fixtures.DeactivateByExternalIDs(ctx, externalIDs)
	default:
		return 0, crerr.Wrapf(ErrInvalidInput, "unknown resource %q", resource)
	}
}

func (s *SyncService) timedOut(ctx context.Context, run *syncrun.Result) bool {
	if run.TimedOut {
		return true
	}
	if ctx.Err() != nil {
		run.TimedOut = true
		return true
	}
	return false
}

func (s *SyncService) finish(ctx context.Context, run syncrun.Result, logger *logging.Logger) syncrun.Result {
	run.FinishedAt = s.now()
	s.record(ctx, run, logger)
	logger.InfoContext(ctx, "sync run finished", "summary", run.Summary(), "duration", run.Duration())
	return run
}

func (s *SyncService) finishFailed(ctx context.Context, run syncrun.Result, logger *logging.Logger, cause error) (syncrun.Result, error) {
	run.State = syncrun.StateFailed
	run.FinishedAt = s.now()
	s.record(ctx, run, logger)
	logger.ErrorContext(ctx, "sync run failed", "summary", run.Summary(), "error", cause)
	return run, cause
}

// record writes the audit row and fires the notifier. Neither may fail
// the run itself; the run outcome is already decided.
func (s *SyncService) record(ctx context.Context, run syncrun.Result, logger *logging.Logger) {
	if s.runs != nil {
		if err := s.runs.Insert(context.WithoutCancel(ctx), run); err != nil {
			logger.WarnContext(ctx, "audit log write failed", "error", err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyRunFinished(context.WithoutCancel(ctx), run); err != nil {
			logger.WarnContext(ctx, "run notification failed", "error", err)
		}
	}
}

// externalIDOf pulls the external id out of a transform error when the
// record carried one, so the audit row can still point at the record.
func externalIDOf(err error) string {
	var verr *transform.ValidationError
	if crerr.As(err, &verr) {
		return verr.ExternalID
	}
	return ""
}
