// Package assets embeds the catalog schemas and report templates shipped with
// the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed embedded_templates
var Templates embed.FS

//go:embed embedded_schemas
var Schemas embed.FS

// Catalog schema paths, relative to GetSchemasFS().
const (
	WorkflowsSchema = "catalog/workflows.schema.yaml"
	BundlesSchema   = "catalog/bundles.schema.yaml"
)

// SummaryTemplate is the markdown report template, relative to GetTemplatesFS().
const SummaryTemplate = "report/summary.md.hbs"

func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(Templates, "embedded_templates"); err == nil {
		return sub
	}
	return Templates
}

func GetSchemasFS() fs.FS {
	if sub, err := fs.Sub(Schemas, "embedded_schemas"); err == nil {
		return sub
	}
	return Schemas
}

// GetSchema returns the embedded schema bytes by relative path (e.g., "catalog/bundles.schema.yaml").
func GetSchema(relPath string) ([]byte, bool) {
	data, err := fs.ReadFile(GetSchemasFS(), relPath)
	return data, err == nil
}

// GetTemplate returns an embedded template by relative path.
func GetTemplate(relPath string) ([]byte, error) {
	return fs.ReadFile(GetTemplatesFS(), relPath)
}
