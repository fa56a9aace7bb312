package country

import "strings"

// Country is one reference country row. ExternalID is the provider's
// identifier and the idempotency key for upserts.
type Country struct {
	ID         int64
	ExternalID string
	Name       string
	Code       string
	FlagURL    string
	IsActive   bool
}

// Equal reports whether two rows carry the same synced data, ignoring the
// internal primary key.
func (c Country) Equal(other Country) bool {
	return c.ExternalID == other.ExternalID &&
		c.Name == other.Name &&
		c.Code == other.Code &&
		c.FlagURL == other.FlagURL &&
		c.IsActive == other.IsActive
}

func NormalizeCode(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
