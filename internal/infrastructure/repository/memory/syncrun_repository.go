package memory

import (
	"context"
	"sync"

	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
)

type SyncRunRepository struct {
	mu   sync.RWMutex
	runs []syncrun.Result
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{}
}

func (r *SyncRunRepository) Insert(_ context.Context, result syncrun.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs = append(r.runs, result)
	return nil
}

// ListRecent returns the newest runs first.
func (r *SyncRunRepository) ListRecent(_ context.Context, limit int) ([]syncrun.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.runs) {
		limit = len(r.runs)
	}
	out := make([]syncrun.Result, 0, limit)
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}
	return out, nil
}
