package league

import "strings"

const (
	TypeLeague = "league"
	TypeCup    = "cup"
)

// League is one competition row for a single season. CountryID references
// the internal countries primary key; CountryExternalID is the unresolved
// placeholder carried by normalized records before resolution.
type League struct {
	ID                int64
	ExternalID        string
	Name              string
	Type              string
	Season            int
	LogoURL           string
	CountryID         int64
	CountryExternalID string
	IsActive          bool
}

func (l League) Equal(other League) bool {
	return l.ExternalID == other.ExternalID &&
		l.Name == other.Name &&
		l.Type == other.Type &&
		l.Season == other.Season &&
		l.LogoURL == other.LogoURL &&
		l.CountryID == other.CountryID &&
		l.IsActive == other.IsActive
}

// NormalizeType maps the provider's competition type onto the closed
// league|cup set.
func NormalizeType(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case TypeLeague:
		return TypeLeague, true
	case TypeCup:
		return TypeCup, true
	default:
		return "", false
	}
}
