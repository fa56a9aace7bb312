package httpapi

import (
	"time"

	"github.com/zaferkucuk/oover-sync/internal/domain/country"
	"github.com/zaferkucuk/oover-sync/internal/domain/fixture"
	"github.com/zaferkucuk/oover-sync/internal/domain/league"
	"github.com/zaferkucuk/oover-sync/internal/domain/team"
)

type countryDTO struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Code       string `json:"code,omitempty"`
	FlagURL    string `json:"flag_url,omitempty"`
	IsActive   bool   `json:"is_active"`
}

func countryToDTO(c country.Country) countryDTO {
	return countryDTO{
		ExternalID: c.ExternalID,
		Name:       c.Name,
		Code:       c.Code,
		FlagURL:    c.FlagURL,
		IsActive:   c.IsActive,
	}
}

type leagueDTO struct {
	ExternalID        string `json:"external_id"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	Season            int    `json:"season"`
	LogoURL           string `json:"logo_url,omitempty"`
	CountryExternalID string `json:"country_external_id"`
	IsActive          bool   `json:"is_active"`
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO{
		ExternalID:        l.ExternalID,
		Name:              l.Name,
		Type:              l.Type,
		Season:            l.Season,
		LogoURL:           l.LogoURL,
		CountryExternalID: l.CountryExternalID,
		IsActive:          l.IsActive,
	}
}

type teamDTO struct {
	ExternalID        string `json:"external_id"`
	Name              string `json:"name"`
	Code              string `json:"code,omitempty"`
	Founded           int    `json:"founded,omitempty"`
	VenueName         string `json:"venue_name,omitempty"`
	LogoURL           string `json:"logo_url,omitempty"`
	CountryExternalID string `json:"country_external_id"`
	IsActive          bool   `json:"is_active"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ExternalID:        t.ExternalID,
		Name:              t.Name,
		Code:              t.Code,
		Founded:           t.Founded,
		VenueName:         t.VenueName,
		LogoURL:           t.LogoURL,
		CountryExternalID: t.CountryExternalID,
		IsActive:          t.IsActive,
	}
}

type fixtureDTO struct {
	ExternalID         string    `json:"external_id"`
	LeagueExternalID   string    `json:"league_external_id"`
	Season             int       `json:"season"`
	HomeTeamExternalID string    `json:"home_team_external_id"`
	AwayTeamExternalID string    `json:"away_team_external_id"`
	KickoffAt          time.Time `json:"kickoff_at"`
	Status             string    `json:"status"`
	Elapsed            *int      `json:"elapsed,omitempty"`
	HomeScore          *int      `json:"home_score,omitempty"`
	AwayScore          *int      `json:"away_score,omitempty"`
	VenueName          string    `json:"venue_name,omitempty"`
	Referee            string    `json:"referee,omitempty"`
	IsActive           bool      `json:"is_active"`
}

func fixtureToDTO(f fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ExternalID:         f.ExternalID,
		LeagueExternalID:   f.LeagueExternalID,
		Season:             f.Season,
		HomeTeamExternalID: f.HomeTeamExternalID,
		AwayTeamExternalID: f.AwayTeamExternalID,
		KickoffAt:          f.KickoffAt,
		Status:             f.Status,
		Elapsed:            f.Elapsed,
		HomeScore:          f.HomeScore,
		AwayScore:          f.AwayScore,
		VenueName:          f.VenueName,
		Referee:            f.Referee,
		IsActive:           f.IsActive,
	}
}
