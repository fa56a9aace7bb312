package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	ID                 int64         `db:"id"`
	ExternalID         string        `db:"external_id"`
	LeagueID           int64         `db:"league_id"`
	LeagueExternalID   string        `db:"league_external_id"`
	Season             int           `db:"season"`
	HomeTeamID         int64         `db:"home_team_id"`
	HomeTeamExternalID string        `db:"home_team_external_id"`
	AwayTeamID         int64         `db:"away_team_id"`
	AwayTeamExternalID string        `db:"away_team_external_id"`
	KickoffAt          time.Time     `db:"kickoff_at"`
	Status             string        `db:"status"`
	Elapsed            sql.NullInt64 `db:"elapsed"`
	HomeScore          sql.NullInt64 `db:"home_score"`
	AwayScore          sql.NullInt64 `db:"away_score"`
	VenueName          string        `db:"venue_name"`
	Referee            string        `db:"referee"`
	IsActive           bool          `db:"is_active"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

type fixtureInsertModel struct {
	ExternalID         string        `db:"external_id"`
	LeagueID           int64         `db:"league_id"`
	LeagueExternalID   string        `db:"league_external_id"`
	Season             int           `db:"season"`
	HomeTeamID         int64         `db:"home_team_id"`
	HomeTeamExternalID string        `db:"home_team_external_id"`
	AwayTeamID         int64         `db:"away_team_id"`
	AwayTeamExternalID string        `db:"away_team_external_id"`
	KickoffAt          time.Time     `db:"kickoff_at"`
	Status             string        `db:"status"`
	Elapsed            sql.NullInt64 `db:"elapsed"`
	HomeScore          sql.NullInt64 `db:"home_score"`
	AwayScore          sql.NullInt64 `db:"away_score"`
	VenueName          string        `db:"venue_name"`
	Referee            string        `db:"referee"`
	IsActive           bool          `db:"is_active"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}
