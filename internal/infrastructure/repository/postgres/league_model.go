package postgres

import "time"

type leagueTableModel struct {
	ID                int64     `db:"id"`
	ExternalID        string    `db:"external_id"`
	Name              string    `db:"name"`
	Type              string    `db:"type"`
	Season            int       `db:"season"`
	LogoURL           string    `db:"logo_url"`
	CountryID         int64     `db:"country_id"`
	CountryExternalID string    `db:"country_external_id"`
	IsActive          bool      `db:"is_active"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	ExternalID        string    `db:"external_id"`
	Name              string    `db:"name"`
	Type              string    `db:"type"`
	Season            int       `db:"season"`
	LogoURL           string    `db:"logo_url"`
	CountryID         int64     `db:"country_id"`
	CountryExternalID string    `db:"country_external_id"`
	IsActive          bool      `db:"is_active"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}
