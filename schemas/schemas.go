// Package schemas provides JSON Schema validation for the structured outputs
// the LLM produces: job extractions and generated application documents.
// Validating before anything is persisted keeps malformed model output out of
// the graph.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed extraction.schema.json
var extractionSchema string

//go:embed documents.schema.json
var documentsSchema string

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates schema validation failures with field paths.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s failed schema validation:", e.Schema)
	for _, fe := range e.Errors {
		fmt.Fprintf(&sb, "\n  %s: %s", fe.Field, fe.Message)
	}
	return sb.String()
}

// ValidateExtraction validates a job extraction JSON document.
func ValidateExtraction(document []byte) error {
	return validate("extraction", extractionSchema, document)
}

// ValidateDocuments validates a generated-documents JSON document.
func ValidateDocuments(document []byte) error {
	return validate("documents", documentsSchema, document)
}

func validate(name, schema string, document []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("failed to validate %s against schema: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: name}
	for _, desc := range result.Errors() {
		verr.Errors = append(verr.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return verr
}
