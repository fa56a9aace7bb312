package league

import "context"

type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (League, bool, error)
	Insert(ctx context.Context, item League) (int64, error)
	Update(ctx context.Context, item League) error
	List(ctx context.Context, season int) ([]League, error)
	Count(ctx context.Context) (int, error)
	DeactivateByExternalIDs(ctx context.Context, externalIDs []string) (int, error)
}
