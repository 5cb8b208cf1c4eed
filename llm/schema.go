package llm

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema is a JSON schema inferred from a Go type, used both to instruct the
// model and to validate its reply.
type Schema struct {
	Name        string
	Description string

	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
	raw      json.RawMessage
}

// SchemaFor infers the schema of T. Fields without omitempty are required and
// `jsonschema` struct tags become property descriptions.
func SchemaFor[T any](name, description string) (*Schema, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("infer schema %s: %w", name, err)
	}
	s.Title = name
	s.Description = description

	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema %s: %w", name, err)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}

	return &Schema{
		Name:        name,
		Description: description,
		schema:      s,
		resolved:    resolved,
		raw:         raw,
	}, nil
}

// MustSchemaFor is like SchemaFor but panics on error. Use it for package-level
// schemas of static types.
func MustSchemaFor[T any](name, description string) *Schema {
	s, err := SchemaFor[T](name, description)
	if err != nil {
		panic(err)
	}
	return s
}

// JSON returns the schema document.
func (s *Schema) JSON() json.RawMessage {
	return s.raw
}

// Validate checks a decoded JSON value (maps, slices, float64, ...) against the schema.
func (s *Schema) Validate(instance any) error {
	return s.resolved.Validate(instance)
}
