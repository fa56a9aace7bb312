package usecase

import (
	"context"
	"time"

	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
	"github.com/zaferkucuk/oover-sync/internal/transform"
)

// FetchParams narrows a fetch to a league, season, calendar day or the
// provider's live feed. Which fields are required depends on the
// resource; the provider client validates the combination.
type FetchParams struct {
	LeagueExternalID string
	Season           int
	Date             time.Time
	Live             bool
}

// FetchMeta describes how a fetch was served. CacheTTL is advisory: how
// long the caller may treat the payload as fresh.
type FetchMeta struct {
	Requests  int
	CacheTTL  time.Duration
	FetchedAt time.Time
}

// FetchResult is one page-merged provider response, split into raw
// per-item records for the transformer.
type FetchResult struct {
	Records []transform.Record
	Meta    FetchMeta
}

// FetchProvider is the outbound port to the external football data API.
type FetchProvider interface {
	Fetch(ctx context.Context, resource transform.Resource, params FetchParams) (FetchResult, error)
}

// RunNotifier pushes a finished run summary to an operator channel.
type RunNotifier interface {
	NotifyRunFinished(ctx context.Context, result syncrun.Result) error
}
