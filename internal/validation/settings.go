// Package validation checks configuration documents against embedded
// JSON Schemas before they reach the rest of the program.
package validation

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rendis/papergraph/pkg/schema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// settingsSchemaJSON is the JSON Schema for the settings.json file.
// Embedded as a constant to avoid filesystem dependencies.
const settingsSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://papergraph.dev/schemas/settings.json",
  "type": "object",
  "properties": {
    "api_key": { "type": "string" },
    "s2_api_key": { "type": "string" },
    "base_url": { "type": "string", "pattern": "^https?://" },
    "s2_base_url": { "type": "string", "pattern": "^https?://" },
    "timeout": {
      "type": "string",
      "pattern": "^[0-9]+(ns|us|µs|ms|s|m|h)$"
    },
    "log_level": {
      "type": "string",
      "enum": ["debug", "info", "warn", "error"]
    },
    "log_format": {
      "type": "string",
      "enum": ["text", "json"]
    },
    "pool_size": {
      "type": "integer",
      "minimum": 1
    }
  },
  "additionalProperties": false
}`

// SettingsValidator validates settings documents against the embedded
// schema. It is safe for concurrent use.
type SettingsValidator struct {
	schema *jsonschema.Schema
}

// NewSettingsValidator creates a SettingsValidator with the settings
// schema pre-compiled.
func NewSettingsValidator() (*SettingsValidator, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(settingsSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal settings schema: %w", err)
	}
	if err := c.AddResource("https://papergraph.dev/schemas/settings.json", doc); err != nil {
		return nil, fmt.Errorf("add settings schema resource: %w", err)
	}

	compiled, err := c.Compile("https://papergraph.dev/schemas/settings.json")
	if err != nil {
		return nil, fmt.Errorf("compile settings schema: %w", err)
	}

	return &SettingsValidator{schema: compiled}, nil
}

// Validate checks raw settings bytes against the schema.
func (v *SettingsValidator) Validate(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return schema.NewError(schema.ErrCodeValidation, "settings file is not valid JSON").WithCause(err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return toValidationError(err)
	}
	return nil
}

// toValidationError converts a jsonschema.ValidationError into a
// PapergraphError with clear, actionable messages.
func toValidationError(err error) *schema.PapergraphError {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return schema.NewError(schema.ErrCodeValidation, err.Error())
	}

	violations := collectViolations(verr)
	if len(violations) == 0 {
		return schema.NewError(schema.ErrCodeValidation, verr.Error())
	}

	if len(violations) == 1 {
		return schema.NewError(schema.ErrCodeValidation, violations[0]).
			WithDetails(map[string]any{"violations": violations})
	}

	msg := fmt.Sprintf("settings validation failed with %d errors", len(violations))
	return schema.NewError(schema.ErrCodeValidation, msg).
		WithDetails(map[string]any{"violations": violations})
}

// collectViolations walks a ValidationError tree and collects leaf
// messages with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
