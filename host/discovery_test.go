package host

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/membench/membench/domain/errors"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
}

func TestDiscoverManifests(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "providers", "zeta", "manifest.json"))
	writeFile(t, filepath.Join(base, "providers", "alpha", "manifest.json"))
	writeFile(t, filepath.Join(base, "providers", "alpha", "index.go"))
	writeFile(t, filepath.Join(base, "providers", "beta", "notes.txt"))
	// Nested layouts are walked too.
	writeFile(t, filepath.Join(base, "providers", "vendor", "gamma", "manifest.json"))

	paths, err := DiscoverManifests(base)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.True(t, sort.StringsAreSorted(paths))
	for _, p := range paths {
		assert.True(t, filepath.IsAbs(p), "expected absolute path, got %s", p)
		assert.Equal(t, ManifestFileName, filepath.Base(p))
	}
	assert.Contains(t, paths[0], "alpha")
	assert.Contains(t, paths[1], filepath.Join("vendor", "gamma"))
	assert.Contains(t, paths[2], "zeta")
}

func TestDiscoverAdapterEntries(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "providers", "alpha", "index.go"))
	writeFile(t, filepath.Join(base, "providers", "beta", "index.wasm"))
	writeFile(t, filepath.Join(base, "providers", "gamma", "manifest.json"))
	// A bare "index." with no extension is not an entry file.
	writeFile(t, filepath.Join(base, "providers", "delta", "index."))
	writeFile(t, filepath.Join(base, "providers", "epsilon", "indexing.md"))

	paths, err := DiscoverAdapterEntries(base)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Contains(t, paths[0], "alpha")
	assert.Contains(t, paths[1], "beta")
}

func TestDiscoverMissingRoot(t *testing.T) {
	base := t.TempDir()

	_, err := DiscoverManifests(base)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domerrors.ErrProvidersRootMissing))

	_, err = DiscoverAdapterEntries(base)
	assert.True(t, errors.Is(err, domerrors.ErrProvidersRootMissing))
}

func TestDiscoverEmptyRoot(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, ProvidersDirName), 0o755))

	paths, err := DiscoverManifests(base)
	require.NoError(t, err)
	assert.Empty(t, paths)
}
