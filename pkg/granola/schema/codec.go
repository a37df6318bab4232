package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"

	"github.com/gorilla/schema"
	"gopkg.in/yaml.v3"
)

var queryEncoder = schema.NewEncoder()

func init() {
	queryEncoder.SetAliasTag("json")
}

// Encode serializes v for a request body. An absent optional value encodes to
// nil, meaning no body is sent.
func (s Schema) Encode(v any) ([]byte, error) {
	if s.IsVoid() {
		return nil, nil
	}
	rv, err := s.normalize(v)
	if err != nil {
		return nil, err
	}
	if !rv.IsValid() {
		return nil, nil
	}

	switch s.format {
	case FormatYAML:
		return yaml.Marshal(rv.Interface())
	case FormatText:
		switch rv.Kind() {
		case reflect.String:
			return []byte(rv.String()), nil
		case reflect.Slice:
			if rv.Type().Elem().Kind() == reflect.Uint8 {
				return rv.Bytes(), nil
			}
		}
		return []byte(fmt.Sprint(rv.Interface())), nil
	default:
		return json.Marshal(rv.Interface())
	}
}

// Query encodes v as URL query parameters. Only struct schemas can be
// query-encoded.
func (s Schema) Query(v any) (url.Values, error) {
	if s.IsVoid() {
		return nil, nil
	}
	rv, err := s.normalize(v)
	if err != nil {
		return nil, err
	}
	if !rv.IsValid() {
		return nil, nil
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot query-encode %s", s.typ)
	}

	values := url.Values{}
	if err := queryEncoder.Encode(rv.Interface(), values); err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}
	return values, nil
}

// QueryEncodable reports whether values of the schema can be sent as URL
// query parameters.
func (s Schema) QueryEncodable() bool {
	if s.IsVoid() {
		return true
	}
	t := s.typ
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// Decode parses a response body and validates the result. The returned value
// has the schema's type (not a pointer to it). A void schema ignores the body.
func (s Schema) Decode(data []byte) (any, error) {
	if s.IsVoid() {
		return nil, nil
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || (s.format == FormatJSON && bytes.Equal(trimmed, []byte("null"))) {
		if s.optional {
			return s.Zero(), nil
		}
		return nil, &Violation{Reason: "empty response body"}
	}

	ptr := reflect.New(s.typ)
	switch s.format {
	case FormatText:
		switch {
		case s.typ.Kind() == reflect.String:
			ptr.Elem().SetString(string(data))
		case s.typ.Kind() == reflect.Slice && s.typ.Elem().Kind() == reflect.Uint8:
			ptr.Elem().SetBytes(bytes.Clone(data))
		default:
			return nil, &Violation{Reason: fmt.Sprintf("cannot decode text into %s", s.typ)}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, ptr.Interface()); err != nil {
			return nil, &Violation{Reason: "malformed yaml: " + err.Error()}
		}
	default:
		if err := json.Unmarshal(data, ptr.Interface()); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return nil, &Violation{
					Field:  typeErr.Field,
					Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
				}
			}
			return nil, &Violation{Reason: "malformed json: " + err.Error()}
		}
	}

	if err := validateValue(ptr.Elem(), ""); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}
