// internal/common/validation/schema.go
package validation

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	SchemaApplicant = "applicant"
	SchemaProvider  = "provider"
)

var (
	schemaOnce  sync.Once
	schemaErr   error
	compiledSet map[string]*gojsonschema.Schema
)

func loadSchemas() {
	compiledSet = make(map[string]*gojsonschema.Schema)
	for _, name := range []string{SchemaApplicant, SchemaProvider} {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			schemaErr = fmt.Errorf("read schema %s: %w", name, err)
			return
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			schemaErr = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		compiledSet[name] = schema
	}
}

// ValidateJSON checks a raw payload against one of the embedded schemas.
// It returns a *ValidationError when the document does not conform.
func ValidateJSON(schemaName string, data []byte) error {
	schemaOnce.Do(loadSchemas)
	if schemaErr != nil {
		return schemaErr
	}

	schema, ok := compiledSet[schemaName]
	if !ok {
		return fmt.Errorf("unknown schema %q", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &ValidationError{
			Subject: schemaName,
			Fields: []FieldError{{
				Field:   "(root)",
				Message: fmt.Sprintf("malformed JSON: %v", err),
				Code:    "MALFORMED_JSON",
			}},
		}
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if prop, ok := desc.Details()["property"].(string); ok && desc.Type() == "required" {
			field = prop
		}
		fields = append(fields, FieldError{
			Field:   field,
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return newValidationError(schemaName, fields)
}
