// Package schema describes the request and response shapes of remote
// operations. A Schema validates a value, encodes it for the wire and decodes
// raw response bytes back into a typed, validated value.
package schema

import (
	"fmt"
	"reflect"
)

// Format is the wire format of a payload.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatText:
		return "text"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ContentType returns the media type used for the Accept and Content-Type
// headers.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Schema is an immutable description of a payload shape. The zero value is a
// void schema: no payload is sent or expected.
type Schema struct {
	typ      reflect.Type
	optional bool
	format   Format
}

// Of returns a required JSON schema for T.
func Of[T any]() Schema {
	return Schema{typ: reflect.TypeFor[T]()}
}

// Optional returns a JSON schema for T where an absent payload is accepted.
func Optional[T any]() Schema {
	return Schema{typ: reflect.TypeFor[T](), optional: true}
}

// Void returns the schema of an operation that has no payload.
func Void() Schema {
	return Schema{}
}

// As returns a copy of s using the given wire format.
func (s Schema) As(f Format) Schema {
	s.format = f
	return s
}

// IsVoid reports whether the schema carries no payload.
func (s Schema) IsVoid() bool { return s.typ == nil }

// IsOptional reports whether an absent payload is valid.
func (s Schema) IsOptional() bool { return s.optional || s.typ == nil }

// Type returns the Go type described by the schema, or nil for void.
func (s Schema) Type() reflect.Type { return s.typ }

// Format returns the wire format.
func (s Schema) Format() Format { return s.format }

func (s Schema) String() string {
	if s.typ == nil {
		return "void"
	}
	name := s.typ.String()
	if s.optional {
		name += "?"
	}
	if s.format != FormatJSON {
		name += " (" + s.format.String() + ")"
	}
	return name
}

// Zero returns the zero value of the described type, or nil for void.
func (s Schema) Zero() any {
	if s.typ == nil {
		return nil
	}
	return reflect.Zero(s.typ).Interface()
}

// New returns a pointer to a new zero value of the described type, for
// unmarshaling caller input. It returns nil for void.
func (s Schema) New() any {
	if s.typ == nil {
		return nil
	}
	return reflect.New(s.typ).Interface()
}

// IsAbsent reports whether v should be treated as a missing payload.
func IsAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// normalize dereferences pointers so callers may pass either T or *T.
// It returns an invalid Value when v is absent.
func (s Schema) normalize(v any) (reflect.Value, error) {
	if IsAbsent(v) {
		return reflect.Value{}, nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && rv.Type() != s.typ {
		if rv.IsNil() {
			return reflect.Value{}, nil
		}
		rv = rv.Elem()
	}
	if rv.Type() != s.typ {
		return reflect.Value{}, &Violation{
			Reason: fmt.Sprintf("expected %s, got %T", s.typ, v),
		}
	}
	return rv, nil
}
