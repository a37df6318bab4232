package catalog

import (
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/iancoleman/strcase"
	"github.com/invopop/jsonschema"

	"github.com/hashicorp-forge/granola-client/pkg/granola/schema"
)

// Descriptor is the static description of one remote operation. Descriptors
// are values; a Catalog holds them read-only after load.
type Descriptor struct {
	// Name is the stable kebab-case identifier, e.g. "get-document-metadata".
	Name string

	// Method is the HTTP verb.
	Method string

	// Path is the path template, e.g. "/v1/documents/{id}/metadata".
	Path string

	// Summary is a one-line description shown by the CLI.
	Summary string

	Request  schema.Schema
	Response schema.Schema

	// RequiresAuth attaches the bearer credential. Set by the constructors.
	RequiresAuth bool

	// Idempotent marks a non-GET operation as safe to resend after a
	// transport failure or 5xx response.
	Idempotent bool

	// Header holds fixed headers sent with every call of this operation.
	Header http.Header

	template Template
}

// Post returns a descriptor for an authenticated POST operation.
func Post(name, path string, req, res schema.Schema) Descriptor {
	return Descriptor{
		Name:         name,
		Method:       http.MethodPost,
		Path:         path,
		Request:      req,
		Response:     res,
		RequiresAuth: true,
	}
}

// Get returns a descriptor for an authenticated GET operation. A non-void
// request schema is sent as query parameters.
func Get(name, path string, req, res schema.Schema) Descriptor {
	return Descriptor{
		Name:         name,
		Method:       http.MethodGet,
		Path:         path,
		Request:      req,
		Response:     res,
		RequiresAuth: true,
	}
}

// Public returns a copy of d that is sent without credentials.
func (d Descriptor) Public() Descriptor {
	d.RequiresAuth = false
	return d
}

// Safe returns a copy of d marked idempotent.
func (d Descriptor) Safe() Descriptor {
	d.Idempotent = true
	return d
}

// Describe returns a copy of d with the given summary.
func (d Descriptor) Describe(summary string) Descriptor {
	d.Summary = summary
	return d
}

// WithHeader returns a copy of d that always sends the given header.
func (d Descriptor) WithHeader(key, value string) Descriptor {
	h := d.Header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set(key, value)
	d.Header = h
	return d
}

// Retryable reports whether the operation may be resent after a transport
// failure or server error.
func (d Descriptor) Retryable() bool {
	return d.Idempotent || d.Method == http.MethodGet || d.Method == http.MethodHead
}

// QueryRequest reports whether the request value travels in the query string.
func (d Descriptor) QueryRequest() bool {
	return d.Method == http.MethodGet || d.Method == http.MethodHead || d.Method == http.MethodDelete
}

// Template returns the parsed path template. It is only populated for
// descriptors obtained from a Catalog.
func (d Descriptor) Template() Template { return d.template }

// Validate checks the descriptor's static rules.
func (d Descriptor) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.By(kebabCase)),
		validation.Field(&d.Method, validation.Required, validation.In(
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodPatch, http.MethodDelete,
		)),
		validation.Field(&d.Path, validation.Required, validation.By(absolutePath)),
		validation.Field(&d.Request, validation.By(func(any) error {
			if d.QueryRequest() && !d.Request.QueryEncodable() {
				return errors.New("must be a struct to be sent as query parameters")
			}
			if d.Request.Format() != schema.FormatJSON && !d.Request.IsVoid() {
				return errors.New("request bodies must be JSON")
			}
			return nil
		})),
	)
}

func kebabCase(v any) error {
	s, _ := v.(string)
	if strcase.ToKebab(s) != s {
		return errors.New("must be kebab-case")
	}
	return nil
}

func absolutePath(v any) error {
	s, _ := v.(string)
	if !strings.HasPrefix(s, "/") {
		return errors.New("must start with '/'")
	}
	if strings.ContainsAny(s, "?#") {
		return errors.New("must not contain a query or fragment")
	}
	return nil
}

// JSONSchema returns the request and response JSON Schemas. Either may be nil.
func (d Descriptor) JSONSchema() (req, res *jsonschema.Schema) {
	return d.Request.JSONSchema(), d.Response.JSONSchema()
}
