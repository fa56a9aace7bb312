package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	qb "github.com/zaferkucuk/oover-sync/internal/platform/querybuilder"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// upsertOnExternalID builds the conflict clause for the Insert methods.
// A row raced in between the lookup and the insert gets its provider
// fields overwritten; is_active and created_at keep their stored values.
func upsertOnExternalID(model any) (string, error) {
	columns, err := qb.ModelColumns(model)
	if err != nil {
		return "", err
	}
	assignments := make([]string, 0, len(columns))
	for _, column := range columns {
		switch column {
		case "external_id", "is_active", "created_at":
			continue
		}
		assignments = append(assignments, column+" = EXCLUDED."+column)
	}
	return "ON CONFLICT (external_id) DO UPDATE SET " +
		strings.Join(assignments, ", ") + " RETURNING id", nil
}

func nullIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	out := int(value.Int64)
	return &out
}

func intPtrToNull(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}

func countRows(ctx context.Context, db *sqlx.DB, table string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From(table).ToSQL()
	if err != nil {
		return 0, crerr.Wrapf(err, "build count %s query", table)
	}
	var count int
	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, crerr.Wrapf(err, "count %s", table)
	}
	return count, nil
}

// deactivateRows flips is_active off for the given external ids and
// reports how many rows actually changed.
func deactivateRows(ctx context.Context, db *sqlx.DB, table string, externalIDs []string) (int, error) {
	query, args, err := qb.Update(table).
		Set("is_active", false).
		Set("updated_at", time.Now().UTC()).
		Where(qb.In("external_id", toAnySlice(externalIDs)), qb.Expr("is_active = TRUE")).
		ToSQL()
	if err != nil {
		return 0, crerr.Wrapf(err, "build deactivate %s query", table)
	}
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, crerr.Wrapf(err, "deactivate %s", table)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, crerr.Wrap(err, "rows affected")
	}
	return int(affected), nil
}
