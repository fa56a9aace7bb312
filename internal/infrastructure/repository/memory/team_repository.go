package memory

import (
	"context"
	"sync"

	"github.com/zaferkucuk/oover-sync/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]team.Team
	order  []string
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		nextID: 1,
		items:  make(map[string]team.Team),
	}
}

func (r *TeamRepository) GetByExternalID(_ context.Context, externalID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[externalID]
	return item, ok, nil
}

func (r *TeamRepository) Insert(_ context.Context, item team.Team) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.items[item.ExternalID] = item
	r.order = append(r.order, item.ExternalID)
	return item.ID, nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ExternalID] = item
	return nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.order))
	for _, externalID := range r.order {
		out = append(out, r.items[externalID])
	}
	return out, nil
}

func (r *TeamRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *TeamRepository) DeactivateByExternalIDs(_ context.Context, externalIDs []string) (int, error) {
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
