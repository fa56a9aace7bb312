package postgres

import (
	"context"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
	qb "github.com/zaferkucuk/oover-sync/internal/platform/querybuilder"
)

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Insert(ctx context.Context, result syncrun.Result) error {
	errorsJSON := []byte("[]")
	if len(result.Errors) > 0 {
		encoded, err := sonic.Marshal(result.Errors)
		if err != nil {
			return crerr.Wrap(err, "marshal run errors")
		}
		errorsJSON = encoded
	}

	query, args, err := qb.InsertModel("sync_runs", syncRunTableModel{
		RunID:      result.RunID,
		Resource:   result.Resource,
		State:      string(result.State),
		Processed:  result.Processed,
		Created:    result.Created,
		Updated:    result.Updated,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
		Errors:     errorsJSON,
		TimedOut:   result.TimedOut,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	}, "")
	if err != nil {
		return crerr.Wrap(err, "build insert sync run query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "insert sync run")
	}
	return nil
}

func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]syncrun.Result, error) {
	if limit <= 0 {
		limit = 20
	}
	query, args, err := qb.Select("*").From("sync_runs").
		OrderBy("started_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list sync runs query")
	}

	var rows []syncRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list sync runs")
	}

	out := make([]syncrun.Result, 0, len(rows))
	for _, row := range rows {
		var recordErrors []syncrun.RecordError
		if len(row.Errors) > 0 {
			if err := sonic.Unmarshal(row.Errors, &recordErrors); err != nil {
				return nil, crerr.Wrapf(err, "decode errors for run %s", row.RunID)
			}
		}
		out = append(out, syncrun.Result{
			RunID:      row.RunID,
			Resource:   row.Resource,
			State:      syncrun.State(row.State),
			Processed:  row.Processed,
			Created:    row.Created,
			Updated:    row.Updated,
			Skipped:    row.Skipped,
			Failed:     row.Failed,
			Errors:     recordErrors,
			TimedOut:   row.TimedOut,
			StartedAt:  row.StartedAt,
			FinishedAt: row.FinishedAt,
		})
	}
	return out, nil
}
