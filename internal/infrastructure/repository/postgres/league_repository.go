package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/zaferkucuk/oover-sync/internal/domain/league"
	qb "github.com/zaferkucuk/oover-sync/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByExternalID(ctx context.Context, externalID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, crerr.Wrap(err, "build select league query")
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, crerr.Wrap(err, "select league")
	}
	return mapLeagueRow(row), true, nil
}

func (r *LeagueRepository) Insert(ctx context.Context, item league.League) (int64, error) {
	now := time.Now().UTC()
	row := leagueInsertModel{
		ExternalID:        item.ExternalID,
		Name:              item.Name,
		Type:              item.Type,
		Season:            item.Season,
		LogoURL:           item.LogoURL,
		CountryID:         item.CountryID,
		CountryExternalID: item.CountryExternalID,
		IsActive:          item.IsActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	suffix, err := upsertOnExternalID(row)
	if err != nil {
		return 0, crerr.Wrap(err, "build league upsert clause")
	}
	query, args, err := qb.InsertModel("leagues", row, suffix)
	if err != nil {
		return 0, crerr.Wrap(err, "build insert league query")
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, crerr.Wrap(err, "insert league")
	}
	return id, nil
}

func (r *LeagueRepository) Update(ctx context.Context, item league.League) error {
	query, args, err := qb.Update("leagues").
		Set("name", item.Name).
		Set("type", item.Type).
		Set("season", item.Season).
		Set("logo_url", item.LogoURL).
		Set("country_id", item.CountryID).
		Set("country_external_id", item.CountryExternalID).
		Set("is_active", item.IsActive).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("external_id", item.ExternalID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update league query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "update league")
	}
	return nil
}

func (r *LeagueRepository) List(ctx context.Context, season int) ([]league.League, error) {
	builder := qb.Select("*").From("leagues").OrderBy("name ASC")
	if season > 0 {
		builder = builder.Where(qb.Eq("season", season))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list leagues query")
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list leagues")
	}
	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapLeagueRow(row))
	}
	return out, nil
}

func (r *LeagueRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "leagues")
}

func (r *LeagueRepository) DeactivateByExternalIDs(ctx context.Context, externalIDs []string) (int, error) {
	return deactivateRows(ctx, r.db, "leagues", externalIDs)
}

func mapLeagueRow(row leagueTableModel) league.League {
	return league.League{
		ID:                row.ID,
		ExternalID:        row.ExternalID,
		Name:              row.Name,
		Type:              row.Type,
		Season:            row.Season,
		LogoURL:           row.LogoURL,
		CountryID:         row.CountryID,
		CountryExternalID: row.CountryExternalID,
		IsActive:          row.IsActive,
	}
}
