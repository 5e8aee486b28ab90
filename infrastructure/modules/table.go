// Package modules is the builtin adapter module table: the driver-style
// registration point for adapters compiled into the harness binary. A
// provider directory whose entry file is not WASM resolves through this
// table, keyed by the directory's base name (the directory name is the
// import path analogue; the manifest's declared name stays authoritative for
// identity, so name mismatches remain detectable downstream).
package modules

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/membench/membench/domain/ports"
)

var (
	mu       sync.RWMutex
	builders = make(map[string]func() any)
)

// Register installs a module builder under the given directory key.
// Registering the same key twice panics, like database/sql drivers: a
// duplicate registration is a programming error, not a runtime condition.
func Register(key string, build func() any) {
	mu.Lock()
	defer mu.Unlock()
	if build == nil {
		panic("modules: Register with nil builder")
	}
	if _, dup := builders[key]; dup {
		panic(fmt.Sprintf("modules: Register called twice for %q", key))
	}
	builders[key] = build
}

// Unregister removes a builder. For test isolation only.
func Unregister(key string) {
	mu.Lock()
	defer mu.Unlock()
	delete(builders, key)
}

// Keys returns the registered directory keys, sorted.
func Keys() []string {
	mu.RLock()
	defer mu.RUnlock()
	keys := make([]string, 0, len(builders))
	for k := range builders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolver implements ports.AdapterResolver over the builtin table.
type Resolver struct{}

// NewResolver creates a table-backed resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

var _ ports.AdapterResolver = (*Resolver)(nil)

// Resolve builds the module registered under the entry file's directory
// name.
func (*Resolver) Resolve(_ context.Context, entryPath string) (any, error) {
	key := filepath.Base(filepath.Dir(entryPath))

	mu.RLock()
	build, ok := builders[key]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no builtin module registered for %q", key)
	}
	return build(), nil
}
