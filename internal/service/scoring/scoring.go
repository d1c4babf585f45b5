// Package scoring parses the semi-structured scoring blobs attached to
// customer company overlays. The blobs are written by an external scoring
// pipeline and arrive in whatever shape that pipeline produced at the time,
// so parsing is strictly best-effort.
package scoring

import (
	"encoding/json"
	"strings"
)

// Result is the scoring summary stored on an overlay.
type Result struct {
	Score            float64 `json:"score"`
	ShortDescription string  `json:"shortDescription"`
	FullDescription  string  `json:"fullDescription"`
}

// Parse decodes a scoring blob. Any shape mismatch (invalid JSON, a
// non-object, a missing or non-numeric score) yields nil, never an error:
// a company without a usable score simply renders without one.
func Parse(raw json.RawMessage) *Result {
	if len(raw) == 0 {
		return nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	scoreRaw, ok := payload["score"]
	if !ok {
		return nil
	}
	var score float64
	if err := json.Unmarshal(scoreRaw, &score); err != nil {
		return nil
	}

	result := &Result{Score: score}
	result.ShortDescription = optionalString(payload, "shortDescription")
	result.FullDescription = optionalString(payload, "fullDescription")
	return result
}

func optionalString(payload map[string]json.RawMessage, key string) string {
	raw, ok := payload[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
