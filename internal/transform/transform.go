// Package transform maps raw provider payloads onto normalized records.
// Every function here is pure: no I/O, no clock, no shared state, so the
// same record always yields the same output.
package transform

import (
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/zaferkucuk/oover-sync/internal/domain/league"
)

// NormalizedCountry is a provider-independent country record. ExternalID
// is a deterministic slug of the provider name because the provider does
// not assign countries a numeric identifier.
type NormalizedCountry struct {
	ExternalID string
	Name       string
	Code       string
	FlagURL    string
}

type NormalizedLeague struct {
	ExternalID        string
	Name              string
	Type              string
	Season            int
	LogoURL           string
	CountryExternalID string
}

type NormalizedTeam struct {
	ExternalID        string
	Name              string
	Code              string
	Founded           int
	VenueName         string
	LogoURL           string
	CountryExternalID string
}

// NormalizedFixture carries unresolved league and team placeholders; the
// sync layer swaps them for internal keys before persistence.
type NormalizedFixture struct {
	ExternalID         string
	LeagueExternalID   string
	Season             int
	HomeTeamExternalID string
	AwayTeamExternalID string
	KickoffAt          time.Time
	Status             string
	Elapsed            *int
	HomeScore          *int
	AwayScore          *int
	VenueName          string
	Referee            string
}

type rawCountry struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Flag string `json:"flag"`
}

type rawLeague struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
	} `json:"country"`
	Seasons []struct {
		Year    int  `json:"year"`
		Current bool `json:"current"`
	} `json:"seasons"`
}

type rawTeam struct {
	Team struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Code    string `json:"code"`
		Country string `json:"country"`
		Founded int    `json:"founded"`
		Logo    string `json:"logo"`
	} `json:"team"`
	Venue struct {
		Name string `json:"name"`
	} `json:"venue"`
}

type rawFixture struct {
	Fixture struct {
		ID      int64  `json:"id"`
		Referee string `json:"referee"`
		Date    string `json:"date"`
		Status  struct {
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		ID     int64 `json:"id"`
		Season int   `json:"season"`
	} `json:"league"`
	Teams struct {
		Home struct {
			ID int64 `json:"id"`
		} `json:"home"`
		Away struct {
			ID int64 `json:"id"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

// Country maps one provider country item. All field violations for the
// record are collected before returning.
func Country(rec Record) (NormalizedCountry, error) {
	verr := &ValidationError{Resource: ResourceCountry}

	var raw rawCountry
	if err := sonic.Unmarshal(rec, &raw); err != nil {
		verr.addf("payload", "malformed country record: %v", err)
		return NormalizedCountry{}, verr
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		verr.addf("name", "is required")
	} else {
		verr.ExternalID = Slugify(name)
	}
	code := strings.ToUpper(strings.TrimSpace(raw.Code))
	if code != "" && (len(code) < 2 || len(code) > 3) {
		verr.addf("code", "must be a 2 or 3 letter code, got %q", raw.Code)
	}

	if err := verr.orNil(); err != nil {
		return NormalizedCountry{}, err
	}
	return NormalizedCountry{
		ExternalID: Slugify(name),
		Name:       name,
		Code:       code,
		FlagURL:    strings.TrimSpace(raw.Flag),
	}, nil
}

// League maps one provider league item. The season is taken from the
// entry the provider flags as current; when no entry is flagged a single
// season entry is accepted as unambiguous.
func League(rec Record) (NormalizedLeague, error) {
	verr := &ValidationError{Resource: ResourceLeague}

	var raw rawLeague
	if err := sonic.Unmarshal(rec, &raw); err != nil {
		verr.addf("payload", "malformed league record: %v", err)
		return NormalizedLeague{}, verr
	}
	if raw.League.ID > 0 {
		verr.ExternalID = strconv.FormatInt(raw.League.ID, 10)
	} else {
		verr.addf("league.id", "is required")
	}

	name := strings.TrimSpace(raw.League.Name)
	if name == "" {
		verr.addf("league.name", "is required")
	}
	leagueType, ok := league.NormalizeType(raw.League.Type)
	if !ok {
		verr.addf("league.type", "must be League or Cup, got %q", raw.League.Type)
	}
	countryName := strings.TrimSpace(raw.Country.Name)
	if countryName == "" {
		verr.addf("country.name", "is required")
	}
	season, ok := pickSeason(raw)
	if !ok {
		verr.addf("seasons", "no current season among %d entries", len(raw.Seasons))
	}

	if err := verr.orNil(); err != nil {
		return NormalizedLeague{}, err
	}
	return NormalizedLeague{
		ExternalID:        strconv.FormatInt(raw.League.ID, 10),
		Name:              name,
		Type:              leagueType,
		Season:            season,
		LogoURL:           strings.TrimSpace(raw.League.Logo),
		CountryExternalID: Slugify(countryName),
	}, nil
}

// Team maps one provider team item.
func Team(rec Record) (NormalizedTeam, error) {
	verr := &ValidationError{Resource: ResourceTeam}

	var raw rawTeam
	if err := sonic.Unmarshal(rec, &raw); err != nil {
		verr.addf("payload", "malformed team record: %v", err)
		return NormalizedTeam{}, verr
	}
	if raw.Team.ID > 0 {
		verr.ExternalID = strconv.FormatInt(raw.Team.ID, 10)
	} else {
		verr.addf("team.id", "is required")
	}

	name := strings.TrimSpace(raw.Team.Name)
	if name == "" {
		verr.addf("team.name", "is required")
	}
	countryName := strings.TrimSpace(raw.Team.Country)
	if countryName == "" {
		verr.addf("team.country", "is required")
	}
	if raw.Team.Founded < 0 {
		verr.addf("team.founded", "must not be negative, got %d", raw.Team.Founded)
	}

	if err := verr.orNil(); err != nil {
		return NormalizedTeam{}, err
	}
	return NormalizedTeam{
		ExternalID:        strconv.FormatInt(raw.Team.ID, 10),
		Name:              name,
		Code:              strings.ToUpper(strings.TrimSpace(raw.Team.Code)),
		Founded:           raw.Team.Founded,
		VenueName:         strings.TrimSpace(raw.Venue.Name),
		LogoURL:           strings.TrimSpace(raw.Team.Logo),
		CountryExternalID: Slugify(countryName),
	}, nil
}

// Fixture maps one provider fixture item, including the closed status
// vocabulary mapping.
func Fixture(rec Record) (NormalizedFixture, error) {
	verr := &ValidationError{Resource: ResourceFixture}

	var raw rawFixture
	if err := sonic.Unmarshal(rec, &raw); err != nil {
		verr.addf("payload", "malformed fixture record: %v", err)
		return NormalizedFixture{}, verr
	}
	if raw.Fixture.ID > 0 {
		verr.ExternalID = strconv.FormatInt(raw.Fixture.ID, 10)
	} else {
		verr.addf("fixture.id", "is required")
	}

	if raw.League.ID <= 0 {
		verr.addf("league.id", "is required")
	}
	if raw.League.Season <= 0 {
		verr.addf("league.season", "is required")
	}
	if raw.Teams.Home.ID <= 0 {
		verr.addf("teams.home.id", "is required")
	}
	if raw.Teams.Away.ID <= 0 {
		verr.addf("teams.away.id", "is required")
	}
	if raw.Teams.Home.ID > 0 && raw.Teams.Home.ID == raw.Teams.Away.ID {
		verr.addf("teams", "home and away must differ, both are %d", raw.Teams.Home.ID)
	}

	var kickoff time.Time
	if trimmed := strings.TrimSpace(raw.Fixture.Date); trimmed == "" {
		verr.addf("fixture.date", "is required")
	} else if parsed, err := time.Parse(time.RFC3339, trimmed); err != nil {
		verr.addf("fixture.date", "must be RFC 3339, got %q", raw.Fixture.Date)
	} else {
		kickoff = parsed.UTC()
	}

	status, err := mapMatchStatus(raw.Fixture.Status.Short)
	if err != nil {
		verr.addf("fixture.status.short", "%v", err)
	}

	if raw.Goals.Home != nil && *raw.Goals.Home < 0 {
		verr.addf("goals.home", "must be non-negative, got %d", *raw.Goals.Home)
	}
	if raw.Goals.Away != nil && *raw.Goals.Away < 0 {
		verr.addf("goals.away", "must be non-negative, got %d", *raw.Goals.Away)
	}
	if raw.Fixture.Status.Elapsed != nil && *raw.Fixture.Status.Elapsed < 0 {
		verr.addf("fixture.status.elapsed", "must be non-negative, got %d", *raw.Fixture.Status.Elapsed)
	}

	if err := verr.orNil(); err != nil {
		return NormalizedFixture{}, err
	}
	return NormalizedFixture{
		ExternalID:         strconv.FormatInt(raw.Fixture.ID, 10),
		LeagueExternalID:   strconv.FormatInt(raw.League.ID, 10),
		Season:             raw.League.Season,
		HomeTeamExternalID: strconv.FormatInt(raw.Teams.Home.ID, 10),
		AwayTeamExternalID: strconv.FormatInt(raw.Teams.Away.ID, 10),
		KickoffAt:          kickoff,
		Status:             status,
		Elapsed:            raw.Fixture.Status.Elapsed,
		HomeScore:          raw.Goals.Home,
		AwayScore:          raw.Goals.Away,
		VenueName:          strings.TrimSpace(raw.Fixture.Venue.Name),
		Referee:            strings.TrimSpace(raw.Fixture.Referee),
	}, nil
}

func pickSeason(raw rawLeague) (int, bool) {
	for _, season := range raw.Seasons {
		if season.Current && season.Year > 0 {
			return season.Year, true
		}
	}
	if len(raw.Seasons) == 1 && raw.Seasons[0].Year > 0 {
		return raw.Seasons[0].Year, true
	}
	return 0, false
}

// Slugify derives a stable identifier from a display name. Countries have
// no provider identifier, so the slug doubles as their external id.
func Slugify(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))
	previousDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			previousDash = false
		default:
			if !previousDash {
				builder.WriteByte('-')
				previousDash = true
			}
		}
	}
	return strings.TrimSuffix(builder.String(), "-")
}
