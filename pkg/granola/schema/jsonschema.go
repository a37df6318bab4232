package schema

import (
	"github.com/invopop/jsonschema"
)

// JSONSchema reflects the described type into a JSON Schema document. It
// returns nil for void and non-JSON schemas.
func (s Schema) JSONSchema() *jsonschema.Schema {
	if s.IsVoid() || s.format != FormatJSON {
		return nil
	}
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	return reflector.ReflectFromType(s.typ)
}
