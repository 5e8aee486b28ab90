// Package testutil provides fixture helpers shared by registry and
// validation tests: scratch provider directories and well-formed manifest
// documents with targeted overrides.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ManifestDoc is a loose manifest document tests can mutate freely before
// serialization.
type ManifestDoc map[string]any

// ValidManifest returns a minimal well-formed manifest for the given
// provider name.
func ValidManifest(name string) ManifestDoc {
	return ManifestDoc{
		"manifest_version": "1",
		"provider": map[string]any{
			"name":    name,
			"type":    "intelligent_memory",
			"version": "1.0.0",
		},
		"capabilities": map[string]any{
			"core_operations": map[string]any{
				"add_memory":      true,
				"retrieve_memory": true,
				"delete_memory":   true,
			},
			"system_flags": map[string]any{
				"async_indexing": false,
			},
			"intelligence_flags": map[string]any{
				"auto_extraction": false,
				"graph_support":   false,
			},
		},
		"semantic_properties": map[string]any{
			"update_strategy": "immediate",
			"delete_strategy": "immediate",
		},
	}
}

// WithOptionalOps returns the doc with the given optional operations
// declared true.
func (d ManifestDoc) WithOptionalOps(ops ...string) ManifestDoc {
	caps := d["capabilities"].(map[string]any)
	optional, _ := caps["optional_operations"].(map[string]any)
	if optional == nil {
		optional = map[string]any{}
	}
	for _, op := range ops {
		optional[op] = true
	}
	caps["optional_operations"] = optional
	return d
}

// Bytes serializes the document.
func (d ManifestDoc) Bytes(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any(d))
	require.NoError(t, err)
	return data
}

// WriteProviderDir creates providers/<dirName> under baseDir with the given
// manifest (nil to omit) and an empty index.go entry marker (skipped when
// withEntry is false). Returns the provider directory path.
func WriteProviderDir(t *testing.T, baseDir, dirName string, doc ManifestDoc, withEntry bool) string {
	t.Helper()
	dir := filepath.Join(baseDir, "providers", dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if doc != nil {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), doc.Bytes(t), 0o644))
	}
	if withEntry {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.go"), []byte("// adapter entry marker\n"), 0o644))
	}
	return dir
}
