package models

import (
	"encoding/json"
	"errors"
)

// JSON holds a raw JSON value whose shape the API does not fix, such as
// feature flag values or panel content.
type JSON json.RawMessage

// MarshalJSON implements json.Marshaler interface.
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("JSON: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

// IsNull reports whether the value is absent or JSON null.
func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Decode unmarshals the value into v.
func (j JSON) Decode(v any) error {
	if j.IsNull() {
		return nil
	}
	return json.Unmarshal(j, v)
}

// Value returns the value decoded into generic Go types.
func (j JSON) Value() (any, error) {
	var v any
	err := j.Decode(&v)
	return v, err
}

// String returns the JSON as a string.
func (j JSON) String() string {
	return string(j)
}
