// Package schema checks catalog documents against the embedded JSON Schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/skillneat/internal/assets"
)

// Known schema names.
const (
	Workflows = "workflows"
	Bundles   = "bundles"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"` // e.g. "workflows.0.steps"
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	return e.Path + ": " + e.Message
}

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// registry holds pre-compiled schemas keyed by name.
var registry = make(map[string]*gojsonschema.Schema)

func init() {
	known := map[string]string{
		Workflows: assets.WorkflowsSchema,
		Bundles:   assets.BundlesSchema,
	}
	for name, path := range known {
		schema, err := compile(path)
		if err != nil {
			// Surfaced by Validate as an unknown schema.
			continue
		}
		registry[name] = schema
	}
}

// compile converts an embedded YAML schema to JSON for gojsonschema.
func compile(path string) (*gojsonschema.Schema, error) {
	schemaBytes, ok := assets.GetSchema(path)
	if !ok || len(schemaBytes) == 0 {
		return nil, fmt.Errorf("schema %s not embedded", path)
	}
	var schemaData interface{}
	if err := yaml.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", path, err)
	}
	jsonBytes, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to convert schema %s: %w", path, err)
	}
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
}

// Validate validates data against the named schema. data must be built from
// JSON-compatible values (maps keyed by string, slices, scalars).
func Validate(data interface{}, schemaName string) (*Result, error) {
	schema, ok := registry[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %s not found in registry", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	res := &Result{Valid: result.Valid()}
	for _, verr := range result.Errors() {
		field := verr.Field()
		if field == "" || field == "(root)" {
			field = "root"
		}
		res.Errors = append(res.Errors, ValidationError{
			Path:    field,
			Message: verr.Description(),
		})
	}
	sort.SliceStable(res.Errors, func(i, j int) bool {
		return res.Errors[i].Path < res.Errors[j].Path
	})
	return res, nil
}
