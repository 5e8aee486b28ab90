package ports

import (
	"context"

	"github.com/membench/membench/domain/entities"
)

// ProviderAdapter is the current provider contract. Every adapter must
// implement the three core operations; optional operations are separate
// interfaces discovered by type assertion, so that "does this adapter
// support update_memory" is a static question answered once at load time.
//
// Name must exactly equal the manifest's declared provider name.
type ProviderAdapter interface {
	Name() string

	// AddMemory stores content in the given scope and returns the created
	// record.
	AddMemory(ctx context.Context, scope entities.MemoryScope, content string, metadata map[string]any) (entities.MemoryRecord, error)

	// RetrieveMemory searches the scope for memories relevant to query. A nil
	// limit means no truncation; a zero limit yields an empty result.
	RetrieveMemory(ctx context.Context, scope entities.MemoryScope, query string, limit *int) ([]entities.RetrievalItem, error)

	// DeleteMemory removes the record with the given id, reporting whether a
	// record was actually deleted.
	DeleteMemory(ctx context.Context, scope entities.MemoryScope, id string) (bool, error)
}

// MemoryUpdater is the optional update_memory capability.
type MemoryUpdater interface {
	UpdateMemory(ctx context.Context, scope entities.MemoryScope, id, content string, metadata map[string]any) (entities.MemoryRecord, error)
}

// MemoryLister is the optional list_memories capability.
type MemoryLister interface {
	ListMemories(ctx context.Context, scope entities.MemoryScope) ([]entities.MemoryRecord, error)
}

// ScopeResetter is the optional reset_scope capability.
type ScopeResetter interface {
	ResetScope(ctx context.Context, scope entities.MemoryScope) error
}

// CapabilityReporter is the optional get_capabilities capability: the
// adapter reports its own capability block at runtime. Manifest flags remain
// authoritative for conformance; this is informational.
type CapabilityReporter interface {
	GetCapabilities(ctx context.Context) (entities.Capabilities, error)
}

// SupportsOperation reports whether the adapter implements the named
// optional operation. Core operations always report true for a conforming
// adapter.
func SupportsOperation(adapter ProviderAdapter, op string) bool {
	switch op {
	case entities.OpAddMemory, entities.OpRetrieveMemory, entities.OpDeleteMemory:
		return true
	case entities.OpUpdateMemory:
		_, ok := adapter.(MemoryUpdater)
		return ok
	case entities.OpListMemories:
		_, ok := adapter.(MemoryLister)
		return ok
	case entities.OpResetScope:
		_, ok := adapter.(ScopeResetter)
		return ok
	case entities.OpGetCapabilities:
		_, ok := adapter.(CapabilityReporter)
		return ok
	}
	return false
}
