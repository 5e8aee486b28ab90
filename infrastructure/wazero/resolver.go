// Package wazero loads WASM provider adapters. A provider directory whose
// entry file is index.wasm is compiled and instantiated with wazero and
// exposed as a current-contract adapter; requests and responses cross the
// guest boundary as JSON through the packed ptr/len ABI.
package wazero

import (
	"context"
	"fmt"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/membench/membench/domain/ports"
)

// Resolver implements ports.AdapterResolver for index.wasm entry files. All
// modules share one runtime; Close releases it.
type Resolver struct {
	runtime wazero.Runtime
}

// NewResolver creates a WASM resolver with a WASI-enabled runtime.
func NewResolver(ctx context.Context) *Resolver {
	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	return &Resolver{runtime: rt}
}

var _ ports.AdapterResolver = (*Resolver)(nil)

// Resolve reads, instantiates, and wraps the WASM module at entryPath. The
// guest must export describe, add_memory, retrieve_memory, delete_memory
// and allocate.
func (r *Resolver) Resolve(ctx context.Context, entryPath string) (any, error) {
	wasmBytes, err := os.ReadFile(entryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wasm module %s: %w", entryPath, err)
	}

	mod, err := r.runtime.Instantiate(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate wasm module %s: %w", entryPath, err)
	}

	adapter := &Adapter{module: mod}
	name, err := adapter.describe(ctx)
	if err != nil {
		_ = mod.Close(ctx)
		return nil, fmt.Errorf("wasm module %s: %w", entryPath, err)
	}
	adapter.name = name
	return adapter, nil
}

// Close releases the shared runtime and every module instantiated in it.
func (r *Resolver) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}
