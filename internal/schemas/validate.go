// Package schemas provides JSON Schema validation for model-produced documents.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// rankedBatchSchema describes the shape a batch-ranking document must have
// before reconciliation. It is deliberately permissive about field values
// (the sanitizer owns coercion) and strict only about structure: a top-level
// "candidates" array of objects carrying an integer index.
const rankedBatchSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["candidates"],
	"properties": {
		"candidates": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["index"],
				"properties": {
					"index": {"type": "integer", "minimum": 0}
				}
			}
		}
	}
}`

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateRankedBatch validates a parsed batch-ranking document against the
// structural schema. A violation is a logical failure of the batch call: the
// caller treats it like any other transient failure and re-attempts.
func ValidateRankedBatch(document string) error {
	schemaLoader := gojsonschema.NewStringLoader(rankedBatchSchema)
	docLoader := gojsonschema.NewStringLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
