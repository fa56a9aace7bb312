package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/zaferkucuk/oover-sync/internal/domain/team"
	qb "github.com/zaferkucuk/oover-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, crerr.Wrap(err, "build select team query")
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, crerr.Wrap(err, "select team")
	}
	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) Insert(ctx context.Context, item team.Team) (int64, error) {
	now := time.Now().UTC()
	row := teamInsertModel{
		ExternalID:        item.ExternalID,
		Name:              item.Name,
		Code:              item.Code,
		Founded:           item.Founded,
		VenueName:         item.VenueName,
		LogoURL:           item.LogoURL,
		CountryID:         item.CountryID,
		CountryExternalID: item.CountryExternalID,
		IsActive:          item.IsActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	suffix, err := upsertOnExternalID(row)
	if err != nil {
		return 0, crerr.Wrap(err, "build team upsert clause")
	}
	query, args, err := qb.InsertModel("teams", row, suffix)
	if err != nil {
		return 0, crerr.Wrap(err, "build insert team query")
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, crerr.Wrap(err, "insert team")
	}
	return id, nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("code", item.Code).
		Set("founded", item.Founded).
		Set("venue_name", item.VenueName).
		Set("logo_url", item.LogoURL).
		Set("country_id", item.CountryID).
		Set("country_external_id", item.CountryExternalID).
		Set("is_active", item.IsActive).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("external_id", item.ExternalID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update team query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "update team")
	}
	return nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").OrderBy("name ASC").ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list teams query")
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list teams")
	}
	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}
	return out, nil
}

func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "teams")
}

func (r *TeamRepository) DeactivateByExternalIDs(ctx context.Context, externalIDs []string) (int, error) {
	return deactivateRows(ctx, r.db, "teams", externalIDs)
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		ID:                row.ID,
		ExternalID:        row.ExternalID,
		Name:              row.Name,
		Code:              row.Code,
		Founded:           row.Founded,
		VenueName:         row.VenueName,
		LogoURL:           row.LogoURL,
		CountryID:         row.CountryID,
		CountryExternalID: row.CountryExternalID,
		IsActive:          row.IsActive,
	}
}
