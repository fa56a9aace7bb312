package country

import "context"

// Repository exposes country storage operations used by the sync core.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (Country, bool, error)
	Insert(ctx context.Context, item Country) (int64, error)
	Update(ctx context.Context, item Country) error
	List(ctx context.Context) ([]Country, error)
	Count(ctx context.Context) (int, error)
	DeactivateByExternalIDs(ctx context.Context, externalIDs []string) (int, error)
}
