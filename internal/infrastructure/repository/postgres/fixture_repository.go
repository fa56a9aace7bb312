package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/zaferkucuk/oover-sync/internal/domain/fixture"
	qb "github.com/zaferkucuk/oover-sync/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByExternalID(ctx context.Context, externalID string) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, crerr.Wrap(err, "build select fixture query")
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, crerr.Wrap(err, "select fixture")
	}
	return mapFixtureRow(row), true, nil
}

func (r *FixtureRepository) Insert(ctx context.Context, item fixture.Fixture) (int64, error) {
	now := time.Now().UTC()
	row := fixtureInsertModel{
		ExternalID:         item.ExternalID,
		LeagueID:           item.LeagueID,
		LeagueExternalID:   item.LeagueExternalID,
		Season:             item.Season,
		HomeTeamID:         item.HomeTeamID,
		HomeTeamExternalID: item.HomeTeamExternalID,
		AwayTeamID:         item.AwayTeamID,
		AwayTeamExternalID: item.AwayTeamExternalID,
		KickoffAt:          item.KickoffAt,
		Status:             item.Status,
		Elapsed:            intPtrToNull(item.Elapsed),
		HomeScore:          intPtrToNull(item.HomeScore),
		AwayScore:          intPtrToNull(item.AwayScore),
		VenueName:          item.VenueName,
		Referee:            item.Referee,
		IsActive:           item.IsActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	suffix, err := upsertOnExternalID(row)
	if err != nil {
		return 0, crerr.Wrap(err, "build fixture upsert clause")
	}
	query, args, err := qb.InsertModel("fixtures", row, suffix)
	if err != nil {
		return 0, crerr.Wrap(err, "build insert fixture query")
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, crerr.Wrap(err, "insert fixture")
	}
	return id, nil
}

func (r *FixtureRepository) Update(ctx context.Context, item fixture.Fixture) error {
	query, args, err := qb.Update("fixtures").
		Set("league_id", item.LeagueID).
		Set("league_external_id", item.LeagueExternalID).
		Set("season", item.Season).
		Set("home_team_id", item.HomeTeamID).
		Set("home_team_external_id", item.HomeTeamExternalID).
		Set("away_team_id", item.AwayTeamID).
		Set("away_team_external_id", item.AwayTeamExternalID).
		Set("kickoff_at", item.KickoffAt).
		Set("status", item.Status).
		Set("elapsed", intPtrToNull(item.Elapsed)).
		Set("home_score", intPtrToNull(item.HomeScore)).
		Set("away_score", intPtrToNull(item.AwayScore)).
		Set("venue_name", item.VenueName).
		Set("referee", item.Referee).
		Set("is_active", item.IsActive).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("external_id", item.ExternalID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update fixture query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "update fixture")
	}
	return nil
}

// UpdateLiveState rewrites only the live-mutable columns.
func (r *FixtureRepository) UpdateLiveState(ctx context.Context, state fixture.LiveState) error {
	query, args, err := qb.Update("fixtures").
		Set("status", state.Status).
		Set("elapsed", intPtrToNull(state.Elapsed)).
		Set("home_score", intPtrToNull(state.HomeScore)).
		Set("away_score", intPtrToNull(state.AwayScore)).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("external_id", state.ExternalID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update live state query")
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return crerr.Wrap(err, "update live state")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return crerr.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return crerr.Newf("fixture %s not found", state.ExternalID)
	}
	return nil
}

func (r *FixtureRepository) List(ctx context.Context, filter fixture.ListFilter) ([]fixture.Fixture, error) {
	conditions := make([]qb.Condition, 0, 5)
	if filter.LeagueExternalID != "" {
		conditions = append(conditions, qb.Eq("league_external_id", filter.LeagueExternalID))
	}
	if filter.Season > 0 {
		conditions = append(conditions, qb.Eq("season", filter.Season))
	}
	if filter.Status != "" {
		conditions = append(conditions, qb.Eq("status", filter.Status))
	}
	if !filter.DateFrom.IsZero() {
		conditions = append(conditions, qb.Gte("kickoff_at", filter.DateFrom))
	}
	if !filter.DateTo.IsZero() {
		conditions = append(conditions, qb.Lt("kickoff_at", filter.DateTo))
	}

	builder := qb.Select("*").From("fixtures").OrderBy("kickoff_at ASC", "external_id ASC")
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list fixtures query")
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list fixtures")
	}
	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapFixtureRow(row))
	}
	return out, nil
}

func (r *FixtureRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "fixtures")
}

func (r *FixtureRepository) DeactivateByExternalIDs(ctx context.Context, externalIDs []string) (int, error) {
	return deactivateRows(ctx, r.db, "fixtures", externalIDs)
}

func mapFixtureRow(row fixtureTableModel) fixture.Fixture {
	return fixture.Fixture{
		ID:                 row.ID,
		ExternalID:         row.ExternalID,
		LeagueID:           row.LeagueID,
		LeagueExternalID:   row.LeagueExternalID,
		Season:             row.Season,
		HomeTeamID:         row.HomeTeamID,
		HomeTeamExternalID: row.HomeTeamExternalID,
		AwayTeamID:         row.AwayTeamID,
		AwayTeamExternalID: row.AwayTeamExternalID,
		KickoffAt:          row.KickoffAt,
		Status:             row.Status,
		Elapsed:            nullIntPtr(row.Elapsed),
		HomeScore:          nullIntPtr(row.HomeScore),
		AwayScore:          nullIntPtr(row.AwayScore),
		VenueName:          row.VenueName,
		Referee:            row.Referee,
		IsActive:           row.IsActive,
	}
}
