package memory

import (
	"context"
	"sort"
	"sync"

	crerr "github.com/cockroachdb/errors"

	"github.com/zaferkucuk/oover-sync/internal/domain/fixture"
)

type FixtureRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]fixture.Fixture
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{
		nextID: 1,
		items:  make(map[string]fixture.Fixture),
	}
}

func (r *FixtureRepository) GetByExternalID(_ context.Context, externalID string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[externalID]
	return item, ok, nil
}

func (r *FixtureRepository) Insert(_ context.Context, item fixture.Fixture) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.items[item.ExternalID] = item
	return item.ID, nil
}

func (r *FixtureRepository) Update(_ context.Context, item fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ExternalID] = item
	return nil
}

func (r *FixtureRepository) UpdateLiveState(_ context.Context, state fixture.LiveState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[state.ExternalID]
	if !ok {
		return crerr.Newf("fixture %s not found", state.ExternalID)
	}
	item.Status = state.Status
	item.Elapsed = state.Elapsed
	item.HomeScore = state.HomeScore
	item.AwayScore = state.AwayScore
	r.items[state.ExternalID] = item
	return nil
}

func (r *FixtureRepository) List(_ context.Context, filter fixture.ListFilter) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.items))
	for _, item := range r.items {
		if filter.LeagueExternalID != "" && item.LeagueExternalID != filter.LeagueExternalID {
			continue
		}
		if filter.Season > 0 && item.Season != filter.Season {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if !filter.DateFrom.IsZero() && item.KickoffAt.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && !item.KickoffAt.Before(filter.DateTo) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].ExternalID < out[j].ExternalID
		}
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out, nil
}

func (r *FixtureRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *FixtureRepository) DeactivateByExternalIDs(_ context.Context, externalIDs []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	affected := 0
	for _, externalID := range externalIDs {
		item, ok := r.items[externalID]
		if !ok || !item.IsActive {
			continue
		}
		item.IsActive = false
		r.items[externalID] = item
		affected++
	}
	return affected, nil
}
