// Package postgres holds the sqlx repositories backing the domain
// interfaces. Statements are built with the shared querybuilder; every
// table is keyed by a unique external_id next to the serial primary key.
package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/zaferkucuk/oover-sync/internal/domain/country"
	qb "github.com/zaferkucuk/oover-sync/internal/platform/querybuilder"
)

type CountryRepository struct {
	db *sqlx.DB
}

func NewCountryRepository(db *sqlx.DB) *CountryRepository {
	return &CountryRepository{db: db}
}

func (r *CountryRepository) GetByExternalID(ctx context.Context, externalID string) (country.Country, bool, error) {
	query, args, err := qb.Select("*").From("countries").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return country.Country{}, false, crerr.Wrap(err, "build select country query")
	}

	var row countryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return country.Country{}, false, nil
		}
		return country.Country{}, false, crerr.Wrap(err, "select country")
	}
	return mapCountryRow(row), true, nil
}

func (r *CountryRepository) Insert(ctx context.Context, item country.Country) (int64, error) {
	now := time.Now().UTC()
	row := countryInsertModel{
		ExternalID: item.ExternalID,
		Name:       item.Name,
		Code:       item.Code,
		FlagURL:    item.FlagURL,
		IsActive:   item.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	suffix, err := upsertOnExternalID(row)
	if err != nil {
		return 0, crerr.Wrap(err, "build country upsert clause")
	}
	query, args, err := qb.InsertModel("countries", row, suffix)
	if err != nil {
		return 0, crerr.Wrap(err, "build insert country query")
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, crerr.Wrap(err, "insert country")
	}
	return id, nil
}

func (r *CountryRepository) Update(ctx context.Context, item country.Country) error {
	query, args, err := qb.Update("countries").
		Set("name", item.Name).
		Set("code", item.Code).
		Set("flag_url", item.FlagURL).
		Set("is_active", item.IsActive).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("external_id", item.ExternalID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update country query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "update country")
	}
	return nil
}

func (r *CountryRepository) List(ctx context.Context) ([]country.Country, error) {
	query, args, err := qb.Select("*").From("countries").OrderBy("name ASC").ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list countries query")
	}

	var rows []countryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list countries")
	}
	out := make([]country.Country, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapCountryRow(row))
	}
	return out, nil
}

func (r *CountryRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "countries")
}

func (r *CountryRepository) DeactivateByExternalIDs(ctx context.Context, externalIDs []string) (int, error) {
	return deactivateRows(ctx, r.db, "countries", externalIDs)
}

func mapCountryRow(row countryTableModel) country.Country {
	return country.Country{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		Name:       row.Name,
		Code:       row.Code,
		FlagURL:    row.FlagURL,
		IsActive:   row.IsActive,
	}
}
