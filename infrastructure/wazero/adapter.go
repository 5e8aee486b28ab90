package wazero

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/membench/membench/domain/entities"
	"github.com/membench/membench/domain/ports"
)

// Adapter presents an instantiated WASM module as a current-contract
// provider adapter. WASM adapters carry the core operations only; optional
// operations are not part of the guest ABI.
type Adapter struct {
	name   string
	module api.Module
}

var _ ports.ProviderAdapter = (*Adapter)(nil)

// envelope is the uniform guest response: either a payload or an error.
type envelope struct {
	OK      bool                     `json:"ok"`
	Error   string                   `json:"error,omitempty"`
	Record  *entities.MemoryRecord   `json:"record,omitempty"`
	Items   []entities.RetrievalItem `json:"items,omitempty"`
	Deleted bool                     `json:"deleted,omitempty"`
}

func (a *Adapter) Name() string {
	return a.name
}

func (a *Adapter) AddMemory(ctx context.Context, scope entities.MemoryScope, content string, metadata map[string]any) (entities.MemoryRecord, error) {
	env, err := a.call(ctx, entities.OpAddMemory, map[string]any{
		"scope":    scope,
		"content":  content,
		"metadata": metadata,
	})
	if err != nil {
		return entities.MemoryRecord{}, err
	}
	if env.Record == nil {
		return entities.MemoryRecord{}, fmt.Errorf("wasm adapter %s: add_memory returned no record", a.name)
	}
	return *env.Record, nil
}

func (a *Adapter) RetrieveMemory(ctx context.Context, scope entities.MemoryScope, query string, limit *int) ([]entities.RetrievalItem, error) {
	req := map[string]any{
		"scope": scope,
		"query": query,
	}
	if limit != nil {
		req["limit"] = *limit
	}
	env, err := a.call(ctx, entities.OpRetrieveMemory, req)
	if err != nil {
		return nil, err
	}
	if env.Items == nil {
		return []entities.RetrievalItem{}, nil
	}
	return env.Items, nil
}

func (a *Adapter) DeleteMemory(ctx context.Context, scope entities.MemoryScope, id string) (bool, error) {
	env, err := a.call(ctx, entities.OpDeleteMemory, map[string]any{
		"scope": scope,
		"id":    id,
	})
	if err != nil {
		return false, err
	}
	return env.Deleted, nil
}

// describe asks the guest for its identity.
func (a *Adapter) describe(ctx context.Context) (string, error) {
	packed, err := a.callRaw(ctx, "describe", nil)
	if err != nil {
		return "", err
	}
	var meta struct {
		Name string `json:"name"`
	}
	if err := a.unmarshalPacked(packed, &meta); err != nil {
		return "", fmt.Errorf("failed to decode describe response: %w", err)
	}
	if meta.Name == "" {
		return "", fmt.Errorf("describe returned an empty name")
	}
	return meta.Name, nil
}

// call invokes a guest export with a JSON request and decodes the response
// envelope.
func (a *Adapter) call(ctx context.Context, export string, req map[string]any) (*envelope, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("wasm adapter %s: failed to encode %s request: %w", a.name, export, err)
	}

	packed, err := a.callRaw(ctx, export, payload)
	if err != nil {
		return nil, fmt.Errorf("wasm adapter %s: %s failed: %w", a.name, export, err)
	}

	var env envelope
	if err := a.unmarshalPacked(packed, &env); err != nil {
		return nil, fmt.Errorf("wasm adapter %s: failed to decode %s response: %w", a.name, export, err)
	}
	if !env.OK {
		return nil, fmt.Errorf("wasm adapter %s: %s reported error: %s", a.name, export, env.Error)
	}
	return &env, nil
}

// callRaw writes the input into guest memory through the guest's allocate
// export, invokes the named export, and returns the packed ptr/len result.
func (a *Adapter) callRaw(ctx context.Context, name string, input []byte) (uint64, error) {
	f := a.module.ExportedFunction(name)
	if f == nil {
		return 0, fmt.Errorf("export %q not found", name)
	}

	var results []uint64
	var err error

	if len(input) == 0 {
		results, err = f.Call(ctx)
	} else {
		allocate := a.module.ExportedFunction("allocate")
		if allocate == nil {
			return 0, fmt.Errorf("guest does not export 'allocate'")
		}
		resAlloc, errAlloc := allocate.Call(ctx, uint64(len(input)))
		if errAlloc != nil {
			return 0, fmt.Errorf("failed to allocate in guest: %w", errAlloc)
		}
		if len(resAlloc) == 0 {
			return 0, fmt.Errorf("allocate returned no results")
		}
		ptr := uint32(resAlloc[0])
		if !a.module.Memory().Write(ptr, input) {
			return 0, fmt.Errorf("failed to write input to guest memory")
		}
		results, err = f.Call(ctx, uint64(ptr), uint64(len(input)))
	}

	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0], nil
}

func (a *Adapter) unmarshalPacked(packed uint64, v any) error {
	ptr := uint32(packed >> 32)
	length := uint32(packed)
	if ptr == 0 || length == 0 {
		return fmt.Errorf("null response from guest")
	}
	data, ok := a.module.Memory().Read(ptr, length)
	if !ok {
		return fmt.Errorf("failed to read response from guest memory")
	}
	return json.Unmarshal(data, v)
}
