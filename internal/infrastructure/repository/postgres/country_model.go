package postgres

import "time"

type countryTableModel struct {
	ID         int64     `db:"id"`
	ExternalID string    `db:"external_id"`
	Name       string    `db:"name"`
	Code       string    `db:"code"`
	FlagURL    string    `db:"flag_url"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type countryInsertModel struct {
	ExternalID string    `db:"external_id"`
	Name       string    `db:"name"`
	Code       string    `db:"code"`
	FlagURL    string    `db:"flag_url"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
