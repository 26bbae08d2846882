package transport

import (
	"strings"

	"github.com/goccy/go-json"
)

// errorBody is the backend's error envelope. Detail is either a string or,
// for request validation failures, a list of {loc, msg, type} objects.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// parseDetail extracts a human-readable message from an error body, or ""
// when the body carries none.
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(eb.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var issues []validationIssue
	if err := json.Unmarshal(eb.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if m := strings.TrimSpace(issue.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
