package fixture

import (
	"context"
	"time"
)

// ListFilter narrows fixture reads for the admin API and the live sync.
type ListFilter struct {
	LeagueExternalID string
	Season           int
	DateFrom         time.Time
	DateTo           time.Time
	Status           string
}

type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (Fixture, bool, error)
	Insert(ctx context.Context, item Fixture) (int64, error)
	Update(ctx context.Context, item Fixture) error
	UpdateLiveState(ctx context.Context, state LiveState) error
	List(ctx context.Context, filter ListFilter) ([]Fixture, error)
	Count(ctx context.Context) (int, error)
	DeactivateByExternalIDs(ctx context.Context, externalIDs []string) (int, error)
}
