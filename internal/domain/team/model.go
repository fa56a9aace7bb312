package team

// Team is one club row. CountryExternalID is the unresolved placeholder
// replaced with CountryID before persistence.
type Team struct {
	ID                int64
	ExternalID        string
	Name              string
	Code              string
	Founded           int
	VenueName         string
	LogoURL           string
	CountryID         int64
	CountryExternalID string
	IsActive          bool
}

func (t Team) Equal(other Team) bool {
	return t.ExternalID == other.ExternalID &&
		t.Name == other.Name &&
		t.Code == other.Code &&
		t.Founded == other.Founded &&
		t.VenueName == other.VenueName &&
		t.LogoURL == other.LogoURL &&
		t.CountryID == other.CountryID &&
		t.IsActive == other.IsActive
}
