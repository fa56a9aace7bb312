package fixture

import "time"

// Closed match-status vocabulary. Provider codes outside this set are a
// validation failure upstream, never silently defaulted.
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinished  = "finished"
	StatusPostponed = "postponed"
	StatusCancelled = "cancelled"
)

// Fixture is one match row. Home/AwayTeamExternalID and LeagueExternalID
// are placeholders resolved against the internal teams/leagues tables
// before persistence.
type Fixture struct {
	ID                 int64
	ExternalID         string
	LeagueID           int64
	LeagueExternalID   string
	Season             int
	HomeTeamID         int64
	HomeTeamExternalID string
	AwayTeamID         int64
	AwayTeamExternalID string
	KickoffAt          time.Time
	Status             string
	Elapsed            *int
	HomeScore          *int
	AwayScore          *int
	VenueName          string
	Referee            string
	IsActive           bool
}

// LiveState is the mutable subset rewritten by live syncs; unrelated
// columns stay untouched.
type LiveState struct {
	ExternalID string
	Status     string
	Elapsed    *int
	HomeScore  *int
	AwayScore  *int
}

func (f Fixture) Equal(other Fixture) bool {
	return f.ExternalID == other.ExternalID &&
		f.LeagueID == other.LeagueID &&
		f.Season == other.Season &&
		f.HomeTeamID == other.HomeTeamID &&
		f.AwayTeamID == other.AwayTeamID &&
		f.KickoffAt.Equal(other.KickoffAt) &&
		f.Status == other.Status &&
		equalIntPtr(f.Elapsed, other.Elapsed) &&
		equalIntPtr(f.HomeScore, other.HomeScore) &&
		equalIntPtr(f.AwayScore, other.AwayScore) &&
		f.VenueName == other.VenueName &&
		f.Referee == other.Referee &&
		f.IsActive == other.IsActive
}

// LiveState extracts the live-mutable subset of a fixture.
func (f Fixture) LiveState() LiveState {
	return LiveState{
		ExternalID: f.ExternalID,
		Status:     f.Status,
		Elapsed:    f.Elapsed,
		HomeScore:  f.HomeScore,
		AwayScore:  f.AwayScore,
	}
}

func (s LiveState) Equal(other LiveState) bool {
	return s.ExternalID == other.ExternalID &&
		s.Status == other.Status &&
		equalIntPtr(s.Elapsed, other.Elapsed) &&
		equalIntPtr(s.HomeScore, other.HomeScore) &&
		equalIntPtr(s.AwayScore, other.AwayScore)
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusScheduled, StatusLive, StatusFinished, StatusPostponed, StatusCancelled:
		return true
	default:
		return false
	}
}

func equalIntPtr(left, right *int) bool {
	if left == nil || right == nil {
		return left == right
	}
	return *left == *right
}
