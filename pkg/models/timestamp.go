package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/invopop/jsonschema"
)

// Timestamp is a point in time that decodes from the several date layouts the
// API uses (RFC 3339 with or without fractional seconds, SQL style, epoch
// milliseconds). Values without a zone are UTC. It always encodes as RFC 3339.
type Timestamp struct {
	time.Time
}

// MarshalJSON implements json.Marshaler interface.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` || s == "" {
		t.Time = time.Time{}
		return nil
	}
	if unq, err := unquote(s); err == nil {
		s = unq
	}
	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func unquote(s string) (string, error) {
	var out string
	err := json.Unmarshal([]byte(s), &out)
	return out, err
}

// JSONSchema describes Timestamp as a date-time string.
func (Timestamp) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Format: "date-time"}
}
