package apifootball

import (
	"encoding/json"

	sonic "github.com/bytedance/sonic"
)

// envelope is the provider's uniform response wrapper. Response items
// stay raw; decoding them is the transformer's job.
type envelope struct {
	Get        string            `json:"get"`
	Parameters json.RawMessage   `json:"parameters"`
	Errors     json.RawMessage   `json:"errors"`
	Results    int               `json:"results"`
	Paging     paging            `json:"paging"`
	Response   []json.RawMessage `json:"response"`
}

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// providerErrors reads the errors field, which the provider serializes
// as an empty array when clean and as an object of name->message pairs
// when a request was rejected.
func (e envelope) providerErrors() map[string]string {
	trimmed := string(e.Errors)
	if trimmed == "" || trimmed == "[]" || trimmed == "null" || trimmed == "{}" {
		return nil
	}
	var out map[string]string
	if err := sonic.Unmarshal(e.Errors, &out); err != nil {
		return map[string]string{"_raw": trimmed}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
