package catalog

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Template is a parsed path template such as "/v1/documents/{id}/metadata".
type Template struct {
	raw    string
	parts  []part
	params []string
}

type part struct {
	literal string
	param   string
}

// MissingParamError is returned by Expand when a placeholder has no value.
type MissingParamError struct {
	Param string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("missing path parameter %q", e.Param)
}

// UnexpectedParamError is returned by Expand when a value names no
// placeholder.
type UnexpectedParamError struct {
	Param string
}

func (e *UnexpectedParamError) Error() string {
	return fmt.Sprintf("unexpected path parameter %q", e.Param)
}

// ParseTemplate parses a path template. Placeholders are written {name}; a
// name may appear only once.
func ParseTemplate(raw string) (Template, error) {
	t := Template{raw: raw}
	rest := raw
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		end := strings.IndexByte(rest, '}')
		if open < 0 {
			if end >= 0 {
				return Template{}, fmt.Errorf("unmatched '}' in %q", raw)
			}
			t.parts = append(t.parts, part{literal: rest})
			break
		}
		if end >= 0 && end < open {
			return Template{}, fmt.Errorf("unmatched '}' in %q", raw)
		}
		if end < 0 {
			return Template{}, fmt.Errorf("unterminated placeholder in %q", raw)
		}
		if open > 0 {
			t.parts = append(t.parts, part{literal: rest[:open]})
		}

		name := rest[open+1 : end]
		if !validParamName(name) {
			return Template{}, fmt.Errorf("invalid placeholder %q in %q", name, raw)
		}
		if slices.Contains(t.params, name) {
			return Template{}, fmt.Errorf("duplicate placeholder %q in %q", name, raw)
		}
		t.params = append(t.params, name)
		t.parts = append(t.parts, part{param: name})
		rest = rest[end+1:]
	}
	return t, nil
}

func validParamName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// String returns the raw template.
func (t Template) String() string { return t.raw }

// Params returns the placeholder names in template order.
func (t Template) Params() []string { return slices.Clone(t.params) }

// Expand substitutes values into the template. Every placeholder needs a
// non-empty value and every value must name a placeholder. Values are
// path-escaped, including the dot segments "." and "..".
func (t Template) Expand(values map[string]string) (string, error) {
	for _, p := range t.params {
		if values[p] == "" {
			return "", &MissingParamError{Param: p}
		}
	}
	var extra []string
	for k := range values {
		if !slices.Contains(t.params, k) {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		slices.Sort(extra)
		return "", &UnexpectedParamError{Param: extra[0]}
	}

	var b strings.Builder
	for _, p := range t.parts {
		if p.param == "" {
			b.WriteString(p.literal)
			continue
		}
		b.WriteString(escapeSegment(values[p.param]))
	}
	return b.String(), nil
}

func escapeSegment(v string) string {
	switch v {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return url.PathEscape(v)
}
