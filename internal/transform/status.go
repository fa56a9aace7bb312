package transform

import (
	"fmt"
	"strings"

	"github.com/zaferkucuk/oover-sync/internal/domain/fixture"
)

// statusByShortCode maps the provider's short match-status codes onto the
// internal closed vocabulary. Codes outside this table are a validation
// failure; the ambiguity is surfaced, never guessed.
var statusByShortCode = map[string]string{
	"TBD":  fixture.StatusScheduled,
	"NS":   fixture.StatusScheduled,
	"1H":   fixture.StatusLive,
	"HT":   fixture.StatusLive,
	"2H":   fixture.StatusLive,
	"ET":   fixture.StatusLive,
	"BT":   fixture.StatusLive,
	"P":    fixture.StatusLive,
	"SUSP": fixture.StatusLive,
	"INT":  fixture.StatusLive,
	"LIVE": fixture.StatusLive,
	"FT":   fixture.StatusFinished,
	"AET":  fixture.StatusFinished,
	"PEN":  fixture.StatusFinished,
	"PST":  fixture.StatusPostponed,
	"CANC": fixture.StatusCancelled,
	"ABD":  fixture.StatusCancelled,
	"AWD":  fixture.StatusCancelled,
	"WO":   fixture.StatusCancelled,
}

func mapMatchStatus(shortCode string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(shortCode))
	if code == "" {
		return "", fmt.Errorf("status code is empty")
	}
	status, ok := statusByShortCode[code]
	if !ok {
		return "", fmt.Errorf("unrecognized status code %q", shortCode)
	}
	return status, nil
}
