package connector

import (
	"encoding/json"
	"time"
)

// mark is the decoded form of the opaque watermark string the connectors
// hand back. Since bounds the fetch window; Page/Offset resume pagination
// inside the window.
type mark struct {
	Since  time.Time `json:"since"`
	Page   string    `json:"page,omitempty"`
	Offset int       `json:"offset,omitempty"`
}

// decodeMark parses a watermark; an empty or corrupt watermark restarts
// the window at now-lookback.
func decodeMark(watermark string, lookback time.Duration) mark {
	if watermark != "" {
		var m mark
		if err := json.Unmarshal([]byte(watermark), &m); err == nil && !m.Since.IsZero() {
			return m
		}
	}
	return mark{Since: time.Now().Add(-lookback)}
}

func (m mark) encode() string {
	raw, _ := json.Marshal(m)
	return string(raw)
}
