// Package memory holds map-backed repositories used when the service
// runs without a database and by the usecase tests.
package memory

import (
	"context"
	"sync"

	"github.com/zaferkucuk/oover-sync/internal/domain/country"
)

type CountryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]country.Country
	order  []string
}

func NewCountryRepository() *CountryRepository {
	return &CountryRepository{
		nextID: 1,
		items:  make(map[string]country.Country),
	}
}

func (r *CountryRepository) GetByExternalID(_ context.Context, externalID string) (country.Country, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[externalID]
	return item, ok, nil
}

func (r *CountryRepository) Insert(_ context.Context, item country.Country) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.items[item.ExternalID] = item
	r.order = append(r.order, item.ExternalID)
	return item.ID, nil
}

func (r *CountryRepository) Update(_ context.Context, item country.Country) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ExternalID] = item
	return nil
}

func (r *CountryRepository) List(_ context.Context) ([]country.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]country.Country, 0, len(r.order))
	for _, externalID := range r.order {
		out = append(out, r.items[externalID])
	}
	return out, nil
}

func (r *CountryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *CountryRepository) DeactivateByExternalIDs(_ context.Context, externalIDs []string) (int, error) {
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
