package syncrun

import (
	"fmt"
	"time"
)

type State string

const (
	StateFetching     State = "fetching"
	StateTransforming State = "transforming"
	StateResolving    State = "resolving"
	StatePersisting   State = "persisting"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// RecordError describes one per-record failure. Stage tells operators
// where in the pipeline the record was rejected.
type RecordError struct {
	ExternalID string `json:"external_id"`
	Stage      string `json:"stage"`
	Message    string `json:"message"`
}

const (
	StageFetch     = "fetch"
	StageTransform = "transform"
	StageResolve   = "resolve"
	StagePersist   = "persist"
)

// Result is the aggregate outcome of one sync run. It is owned by the
// sync service for the duration of the run and written to the audit log
// once terminal.
type Result struct {
	RunID      string        `json:"run_id"`
	Resource   string        `json:"resource"`
	State      State         `json:"state"`
	Processed  int           `json:"processed"`
	Created    int           `json:"created"`
	Updated    int           `json:"updated"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Errors     []RecordError `json:"errors,omitempty"`
	TimedOut   bool          `json:"timed_out"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// UpsertOutcome classifies what persisting one record did to the store.
type UpsertOutcome int

const (
	OutcomeCreated UpsertOutcome = iota
	OutcomeUpdated
	OutcomeSkipped
)

// Count folds one upsert outcome into the run counters.
func (r *Result) Count(outcome UpsertOutcome) {
	switch outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	}
}

func (r *Result) RecordFailure(externalID, stage string, err error) {
	r.Failed++
	message := ""
	if err != nil {
		message = err.Error()
	}
	r.Errors = append(r.Errors, RecordError{
		ExternalID: externalID,
		Stage:      stage,
		Message:    message,
	})
}

// Summary renders the one-line run summary operators always get, even on
// partial failure.
func (r Result) Summary() string {
	return fmt.Sprintf(
		"resource=%s state=%s processed=%d created=%d updated=%d skipped=%d failed=%d timed_out=%t",
		r.Resource, r.State, r.Processed, r.Created, r.Updated, r.Skipped, r.Failed, r.TimedOut,
	)
}

func (r Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
