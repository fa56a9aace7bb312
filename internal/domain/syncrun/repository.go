package syncrun

import "context"

// Repository is the audit log collaborator; runs are append-only.
type Repository interface {
	Insert(ctx context.Context, result Result) error
	ListRecent(ctx context.Context, limit int) ([]Result, error)
}
