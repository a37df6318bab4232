package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report fields by their wire names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// Violation describes the first constraint a value failed.
type Violation struct {
	// Field is the dotted wire path of the offending field. Empty when the
	// payload as a whole is invalid.
	Field  string
	Reason string
}

func (v *Violation) Error() string {
	if v.Field == "" {
		return v.Reason
	}
	return v.Field + ": " + v.Reason
}

// Validate checks v against the schema. Both T and *T are accepted for a
// schema of T. A nil value is valid only for void and optional schemas.
func (s Schema) Validate(v any) error {
	if s.IsVoid() {
		if !IsAbsent(v) {
			return &Violation{Reason: fmt.Sprintf("no payload expected, got %T", v)}
		}
		return nil
	}

	rv, err := s.normalize(v)
	if err != nil {
		return err
	}
	if !rv.IsValid() {
		if s.optional {
			return nil
		}
		return &Violation{Reason: "required"}
	}
	return validateValue(rv, "")
}

func validateValue(rv reflect.Value, path string) error {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		err := validate.Struct(rv.Interface())
		if err == nil {
			return nil
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &Violation{
				Field:  joinPath(path, trimNamespace(fe.Namespace())),
				Reason: formatFieldError(fe),
			}
		}
		return &Violation{Field: path, Reason: err.Error()}

	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := validateValue(rv.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}

	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			p := joinPath(path, fmt.Sprint(iter.Key().Interface()))
			if err := validateValue(iter.Value(), p); err != nil {
				return err
			}
		}
	}

	return nil
}

// trimNamespace drops the leading type name validator puts on every
// namespace ("CreateDocumentRequest.title" -> "title").
func trimNamespace(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func joinPath(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	case strings.HasPrefix(field, "["):
		return prefix + field
	default:
		return prefix + "." + field
	}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
