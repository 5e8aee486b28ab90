package host

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	domerrors "github.com/membench/membench/domain/errors"
)

// ProvidersDirName is the conventional root directory for provider plugins.
const ProvidersDirName = "providers"

// ManifestFileName is the manifest file every provider directory carries.
const ManifestFileName = "manifest.json"

// adapterEntryPrefix matches adapter entry files: index.go, index.wasm, ...
const adapterEntryPrefix = "index."

// DiscoverManifests walks providers/** under baseDir and returns the
// absolute paths of every manifest.json found, sorted lexicographically.
// Filesystem enumeration order is not trusted; sorting keeps duplicate
// resolution and error reporting reproducible across runs.
func DiscoverManifests(baseDir string) ([]string, error) {
	return discover(baseDir, func(name string) bool {
		return name == ManifestFileName
	})
}

// DiscoverAdapterEntries walks providers/** under baseDir and returns the
// absolute paths of every index.* adapter entry file, sorted
// lexicographically.
func DiscoverAdapterEntries(baseDir string) ([]string, error) {
	return discover(baseDir, func(name string) bool {
		return strings.HasPrefix(name, adapterEntryPrefix) && len(name) > len(adapterEntryPrefix)
	})
}

func discover(baseDir string, match func(name string) bool) ([]string, error) {
	root := filepath.Join(baseDir, ProvidersDirName)
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domerrors.ErrProvidersRootMissing, root)
		}
		return nil, fmt.Errorf("failed to stat providers root %s: %w", root, err)
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !match(d.Name()) {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		found = append(found, abs)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan providers root %s: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}
