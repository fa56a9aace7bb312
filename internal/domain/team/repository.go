package team

import "context"

type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (Team, bool, error)
	Insert(ctx context.Context, item Team) (int64, error)
	Update(ctx context.Context, item Team) error
	List(ctx context.Context) ([]Team, error)
	Count(ctx context.Context) (int, error)
	DeactivateByExternalIDs(ctx context.Context, externalIDs []string) (int, error)
}
