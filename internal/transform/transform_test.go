package transform

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const validFixturePayload = `{
	"fixture": {
		"id": 1035037,
		"referee": "M. Oliver",
		"date": "2024-08-16T19:00:00+00:00",
		"status": {"short": "FT", "elapsed": 90},
		"venue": {"name": "Old Trafford"}
	},
	"league": {"id": 39, "season": 2024},
	"teams": {"home": {"id": 33}, "away": {"id": 40}},
	"goals": {"home": 1, "away": 0}
}`

func TestCountry_MapsAndSlugs(t *testing.T) {
	t.Parallel()

	got, err := Country(Record(`{"name": "Bosnia and Herzegovina", "code": "ba", "flag": "https://flags.test/ba.svg"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ExternalID != "bosnia-and-herzegovina" {
		t.Fatalf("expected slug external id, got %q", got.ExternalID)
	}
	if got.Code != "BA" {
		t.Fatalf("expected uppercased code, got %q", got.Code)
	}
}

func TestCountry_Deterministic(t *testing.T) {
	t.Parallel()

	rec := Record(`{"name": "England", "code": "GB", "flag": ""}`)
	first, err := Country(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Country(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical outputs, got %+v and %+v", first, second)
	}
}

func TestLeague_CurrentSeasonWins(t *testing.T) {
	t.Parallel()

	got, err := League(Record(`{
		"league": {"id": 39, "name": "Premier League", "type": "League", "logo": "https://logos.test/39.png"},
		"country": {"name": "England"},
		"seasons": [{"year": 2023, "current": false}, {"year": 2024, "current": true}]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Season != 2024 {
		t.Fatalf("expected current season 2024, got %d", got.Season)
	}
	if got.Type != "league" {
		t.Fatalf("expected normalized type league, got %q", got.Type)
	}
	if got.CountryExternalID != "england" {
		t.Fatalf("expected country slug england, got %q", got.CountryExternalID)
	}
}

func TestLeague_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	_, err := League(Record(`{
		"league": {"id": 0, "name": "", "type": "friendly"},
		"country": {"name": ""},
		"seasons": []
	}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 5 {
		t.Fatalf("expected 5 field violations, got %d: %v", len(verr.Fields), err)
	}
	for _, want := range []string{"league.id", "league.name", "league.type", "country.name", "seasons"} {
		if !hasField(verr, want) {
			t.Fatalf("expected violation on %s, got %v", want, err)
		}
	}
}

func TestTeam_Maps(t *testing.T) {
	t.Parallel()

	got, err := Team(Record(`{
		"team": {"id": 33, "name": "Manchester United", "code": "mun", "country": "England", "founded": 1878, "logo": "https://logos.test/33.png"},
		"venue": {"name": "Old Trafford"}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ExternalID != "33" {
		t.Fatalf("expected external id 33, got %q", got.ExternalID)
	}
	if got.Code != "MUN" {
		t.Fatalf("expected uppercased code, got %q", got.Code)
	}
	if got.CountryExternalID != "england" {
		t.Fatalf("expected country slug england, got %q", got.CountryExternalID)
	}
}

func TestFixture_Maps(t *testing.T) {
	t.Parallel()

	got, err := Fixture(Record(validFixturePayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != "finished" {
		t.Fatalf("expected status finished for FT, got %q", got.Status)
	}
	wantKickoff := time.Date(2024, 8, 16, 19, 0, 0, 0, time.UTC)
	if !got.KickoffAt.Equal(wantKickoff) {
		t.Fatalf("expected kickoff %s, got %s", wantKickoff, got.KickoffAt)
	}
	if got.HomeScore == nil || *got.HomeScore != 1 {
		t.Fatalf("expected home score 1, got %v", got.HomeScore)
	}
	if got.LeagueExternalID != "39" || got.HomeTeamExternalID != "33" || got.AwayTeamExternalID != "40" {
		t.Fatalf("unexpected placeholders: %+v", got)
	}
}

func TestFixture_UnknownStatusRejected(t *testing.T) {
	t.Parallel()

	payload := strings.Replace(validFixturePayload, `"short": "FT"`, `"short": "XYZ"`, 1)
	_, err := Fixture(Record(payload))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown status, got %v", err)
	}
	if !hasField(verr, "fixture.status.short") {
		t.Fatalf("expected violation on fixture.status.short, got %v", err)
	}
	if verr.ExternalID != "1035037" {
		t.Fatalf("expected external id carried on error, got %q", verr.ExternalID)
	}
}

func TestFixture_SameTeamRejected(t *testing.T) {
	t.Parallel()

	payload := strings.Replace(validFixturePayload, `"away": {"id": 40}`, `"away": {"id": 33}`, 1)
	_, err := Fixture(Record(payload))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !hasField(verr, "teams") {
		t.Fatalf("expected violation on teams, got %v", err)
	}
}

func TestFixture_NegativeScoresRejected(t *testing.T) {
	t.Parallel()

	payload := strings.Replace(validFixturePayload, `"goals": {"home": 1, "away": 0}`, `"goals": {"home": -3, "away": -1}`, 1)
	payload = strings.Replace(payload, `"elapsed": 90`, `"elapsed": -7`, 1)
	_, err := Fixture(Record(payload))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for negative scores, got %v", err)
	}
	for _, field := range []string{"goals.home", "goals.away", "fixture.status.elapsed"} {
		if !hasField(verr, field) {
			t.Fatalf("expected violation on %s, got %v", field, err)
		}
	}
}

func TestFixture_NullScoresAccepted(t *testing.T) {
	t.Parallel()

	payload := strings.Replace(validFixturePayload, `"goals": {"home": 1, "away": 0}`, `"goals": {"home": null, "away": null}`, 1)
	payload = strings.Replace(payload, `"short": "FT", "elapsed": 90`, `"short": "NS", "elapsed": null`, 1)
	got, err := Fixture(Record(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.HomeScore != nil || got.AwayScore != nil || got.Elapsed != nil {
		t.Fatalf("expected nil scores and elapsed, got %+v", got)
	}
}

func TestFixture_MalformedPayload(t *testing.T) {
	t.Parallel()

	_, err := Fixture(Record(`{"fixture": `))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for malformed payload, got %v", err)
	}
	if !hasField(verr, "payload") {
		t.Fatalf("expected violation on payload, got %v", err)
	}
}

func TestMapMatchStatus_ClosedVocabulary(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"TBD":  "scheduled",
		"NS":   "scheduled",
		"1H":   "live",
		"ht":   "live",
		"SUSP": "live",
		"FT":   "finished",
		"AET":  "finished",
		"PEN":  "finished",
		"PST":  "postponed",
		"CANC": "cancelled",
		"WO":   "cancelled",
	}
	for code, want := range cases {
		got, err := mapMatchStatus(code)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", code, err)
		}
		if got != want {
			t.Fatalf("expected %s for %s, got %s", want, code, got)
		}
	}
	if _, err := mapMatchStatus(""); err == nil {
		t.Fatalf("expected error for empty status")
	}
	if _, err := mapMatchStatus("ZZZ"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestParseResource(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"country", "Countries", "league", "leagues", "team", "TEAMS", "fixture", "fixtures"} {
		if _, ok := ParseResource(value); !ok {
			t.Fatalf("expected %q to parse", value)
		}
	}
	if _, ok := ParseResource("standings"); ok {
		t.Fatalf("expected standings to be rejected")
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"England":              "england",
		"  Côte d'Ivoire  ":    "c-te-d-ivoire",
		"Bosnia & Herzegovina": "bosnia-herzegovina",
		"USA":                  "usa",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func hasField(verr *ValidationError, field string) bool {
	for _, f := range verr.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
