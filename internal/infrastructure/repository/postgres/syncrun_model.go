package postgres

import "time"

type syncRunTableModel struct {
	RunID      string    `db:"run_id"`
	Resource   string    `db:"resource"`
	State      string    `db:"state"`
	Processed  int       `db:"processed"`
	Created    int       `db:"created"`
	Updated    int       `db:"updated"`
	Skipped    int       `db:"skipped"`
	Failed     int       `db:"failed"`
	Errors     []byte    `db:"errors"`
	TimedOut   bool      `db:"timed_out"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}
