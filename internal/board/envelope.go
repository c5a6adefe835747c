package board

import (
	"encoding/json"
	"strings"
)

// envelope mirrors the uniform response wrapper used by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// errorBody is the shape of data on failure responses.
type errorBody struct {
	Message string `json:"message"`
}

// failureMessage resolves the user-facing message for a failed envelope.
// Precedence: data.message, then the top-level message, then the fallback.
func (env envelope) failureMessage(fallback string) string {
	if len(env.Data) > 0 {
		var body errorBody
		if err := json.Unmarshal(env.Data, &body); err == nil {
			if msg := strings.TrimSpace(body.Message); msg != "" {
				return msg
			}
		}
	}
	if msg := strings.TrimSpace(env.Message); msg != "" {
		return msg
	}
	return fallback
}
