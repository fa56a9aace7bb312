package memory

import (
	"context"
	"sync"

	"github.com/zaferkucuk/oover-sync/internal/domain/league"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]league.League
	order  []string
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		nextID: 1,
		items:  make(map[string]league.League),
	}
}

func (r *LeagueRepository) GetByExternalID(_ context.Context, externalID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[externalID]
	return item, ok, nil
}

func (r *LeagueRepository) Insert(_ context.Context, item league.League) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.items[item.ExternalID] = item
	r.order = append(r.order, item.ExternalID)
	return item.ID, nil
}

func (r *LeagueRepository) Update(_ context.Context, item league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ExternalID] = item
	return nil
}

func (r *LeagueRepository) List(_ context.Context, season int) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.order))
	for _, externalID := range r.order {
		item := r.items[externalID]
		if season > 0 && item.Season != season {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *LeagueRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *LeagueRepository) DeactivateByExternalIDs(_ context.Context, externalIDs []string) (int, error) {
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
