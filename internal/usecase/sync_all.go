package usecase

import (
	"context"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
	"github.com/zaferkucuk/oover-sync/internal/transform"
)

// SyncAllResult collects the per-resource runs of one full refresh in
// execution order.
type SyncAllResult struct {
	Runs []syncrun.Result `json:"runs"`
}

func (r SyncAllResult) Failed() bool {
	for _, run := range r.Runs {
		if run.State == syncrun.StateFailed {
			return true
		}
	}
	return false
}

// SyncAll refreshes every resource type. Countries go first because
// leagues and teams resolve against them; those two have no dependency
// on each other and run concurrently on the worker pool; fixtures go
// last once both sides of their references exist.
func (s *SyncService) SyncAll(ctx context.Context, params FetchParams, workers int) (SyncAllResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.SyncAll")
	defer span.End()

	if workers < 1 {
		workers = 2
	}

	var out SyncAllResult
	countryRun, err := s.Sync(ctx, transform.ResourceCountry, FetchParams{})
	out.Runs = append(out.Runs, countryRun)
	if err != nil {
		return out, crerr.Wrap(err, "sync countries")
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return out, crerr.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		midRuns = make([]syncrun.Result, 0, 2)
		midErr  error
	)
	for _, resource := range []transform.Resource{transform.ResourceLeague, transform.ResourceTeam} {
		resource := resource
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			run, runErr := s.Sync(ctx, resource, params)
			mu.Lock()
			defer mu.Unlock()
			midRuns = append(midRuns, run)
			if runErr != nil && midErr == nil {
				midErr = crerr.Wrapf(runErr, "sync %s", resource)
			}
		}); err != nil {
			wg.Done()
			return out, crerr.Wrap(err, "submit to worker pool")
		}
	}
	wg.Wait()
	out.Runs = append(out.Runs, midRuns...)
	if midErr != nil {
		return out, midErr
	}

	fixtureRun, err := s.Sync(ctx, transform.ResourceFixture, params)
	out.Runs = append(out.Runs, fixtureRun)
	if err != nil {
		return out, crerr.Wrap(err, "sync fixtures")
	}
	return out, nil
}
