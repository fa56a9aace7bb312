package transform

import "strings"

// Resource enumerates the synchronized entity types.
type Resource string

const (
	ResourceCountry Resource = "country"
	ResourceLeague  Resource = "league"
	ResourceTeam    Resource = "team"
	ResourceFixture Resource = "fixture"
)

// Record is one raw provider payload item, kept opaque until the
// per-resource schema decodes it.
type Record []byte

func ParseResource(value string) (Resource, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "country", "countries":
		return ResourceCountry, true
	case "league", "leagues":
		return ResourceLeague, true
	case "team", "teams":
		return ResourceTeam, true
	case "fixture", "fixtures":
		return ResourceFixture, true
	default:
		return "", false
	}
}

func Resources() []Resource {
	return []Resource{ResourceCountry, ResourceLeague, ResourceTeam, ResourceFixture}
}
