// Package provider contains reference adapter implementations backed by
// process-local storage. They serve as conformance fixtures for the registry
// and as the scaffold new adapters start from; retrieval is naive substring
// matching, suitable for tests and demos only.
package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/membench/membench/domain/entities"
	"github.com/membench/membench/domain/ports"
)

// store is the shared in-process storage: scope key -> record id -> record.
type store struct {
	mu      sync.RWMutex
	records map[string]map[string]entities.MemoryRecord
}

func newStore() *store {
	return &store{records: make(map[string]map[string]entities.MemoryRecord)}
}

// scopeKey flattens a scope into a deterministic partition key.
func scopeKey(scope entities.MemoryScope) string {
	return strings.Join([]string{scope.UserID, scope.RunID, scope.SessionID, scope.Namespace}, "|")
}

func (s *store) add(scope entities.MemoryScope, content string, metadata map[string]any) entities.MemoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scopeKey(scope)
	if _, ok := s.records[key]; !ok {
		s.records[key] = make(map[string]entities.MemoryRecord)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	rec := entities.MemoryRecord{
		ID:        uuid.NewString(),
		Context:   content,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}
	s.records[key][rec.ID] = rec
	return rec
}

func (s *store) search(scope entities.MemoryScope, query string, limit *int) []entities.RetrievalItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []entities.RetrievalItem{}
	for _, rec := range s.records[scopeKey(scope)] {
		if query == "" || strings.Contains(rec.Context, query) {
			items = append(items, entities.RetrievalItem{Record: rec, Score: 1.0})
		}
	}
	if limit != nil && *limit >= 0 && len(items) > *limit {
		items = items[:*limit]
	}
	return items
}

func (s *store) delete(scope entities.MemoryScope, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	scoped, ok := s.records[scopeKey(scope)]
	if !ok {
		return false
	}
	if _, ok := scoped[id]; !ok {
		return false
	}
	delete(scoped, id)
	return true
}

func (s *store) update(scope entities.MemoryScope, id, content string, metadata map[string]any) (entities.MemoryRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scoped, ok := s.records[scopeKey(scope)]
	if !ok {
		return entities.MemoryRecord{}, false
	}
	rec, ok := scoped[id]
	if !ok {
		return entities.MemoryRecord{}, false
	}
	rec.Context = content
	if metadata != nil {
		rec.Metadata = metadata
	}
	rec.Timestamp = time.Now().UTC()
	scoped[id] = rec
	return rec, true
}

func (s *store) list(scope entities.MemoryScope) []entities.MemoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []entities.MemoryRecord{}
	for _, rec := range s.records[scopeKey(scope)] {
		out = append(out, rec)
	}
	return out
}

func (s *store) reset(scope entities.MemoryScope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, scopeKey(scope))
}

// InMemory is a current-contract adapter implementing every optional
// operation.
type InMemory struct {
	name  string
	store *store
}

// NewInMemory creates a full-featured in-memory adapter with the given
// provider name.
func NewInMemory(name string) *InMemory {
	return &InMemory{name: name, store: newStore()}
}

var (
	_ ports.ProviderAdapter    = (*InMemory)(nil)
	_ ports.MemoryUpdater      = (*InMemory)(nil)
	_ ports.MemoryLister       = (*InMemory)(nil)
	_ ports.ScopeResetter      = (*InMemory)(nil)
	_ ports.CapabilityReporter = (*InMemory)(nil)
)

func (p *InMemory) Name() string {
	return p.name
}

func (p *InMemory) AddMemory(_ context.Context, scope entities.MemoryScope, content string, metadata map[string]any) (entities.MemoryRecord, error) {
	return p.store.add(scope, content, metadata), nil
}

func (p *InMemory) RetrieveMemory(_ context.Context, scope entities.MemoryScope, query string, limit *int) ([]entities.RetrievalItem, error) {
	return p.store.search(scope, query, limit), nil
}

func (p *InMemory) DeleteMemory(_ context.Context, scope entities.MemoryScope, id string) (bool, error) {
	return p.store.delete(scope, id), nil
}

func (p *InMemory) UpdateMemory(_ context.Context, scope entities.MemoryScope, id, content string, metadata map[string]any) (entities.MemoryRecord, error) {
	rec, ok := p.store.update(scope, id, content, metadata)
	if !ok {
		return entities.MemoryRecord{}, fmt.Errorf("memory %s not found in scope", id)
	}
	return rec, nil
}

func (p *InMemory) ListMemories(_ context.Context, scope entities.MemoryScope) ([]entities.MemoryRecord, error) {
	return p.store.list(scope), nil
}

func (p *InMemory) ResetScope(_ context.Context, scope entities.MemoryScope) error {
	p.store.reset(scope)
	return nil
}

func (p *InMemory) GetCapabilities(_ context.Context) (entities.Capabilities, error) {
	flag := func(b bool) *bool { return &b }
	return entities.Capabilities{
		CoreOperations: entities.CoreOperations{
			AddMemory:      true,
			RetrieveMemory: true,
			DeleteMemory:   true,
		},
		OptionalOperations: entities.OptionalOperations{
			UpdateMemory:    flag(true),
			ListMemories:    flag(true),
			ResetScope:      flag(true),
			GetCapabilities: flag(true),
		},
	}, nil
}

// InMemoryCore is a core-operations-only variant of InMemory. It backs
// minimal fixtures: no optional interface is implemented, so capability
// conformance checks see exactly the core contract.
type InMemoryCore struct {
	name  string
	store *store
}

// NewInMemoryCore creates a core-only in-memory adapter.
func NewInMemoryCore(name string) *InMemoryCore {
	return &InMemoryCore{name: name, store: newStore()}
}

var _ ports.ProviderAdapter = (*InMemoryCore)(nil)

func (p *InMemoryCore) Name() string {
	return p.name
}

func (p *InMemoryCore) AddMemory(_ context.Context, scope entities.MemoryScope, content string, metadata map[string]any) (entities.MemoryRecord, error) {
	return p.store.add(scope, content, metadata), nil
}

func (p *InMemoryCore) RetrieveMemory(_ context.Context, scope entities.MemoryScope, query string, limit *int) ([]entities.RetrievalItem, error) {
	return p.store.search(scope, query, limit), nil
}

func (p *InMemoryCore) DeleteMemory(_ context.Context, scope entities.MemoryScope, id string) (bool, error) {
	return p.store.delete(scope, id), nil
}
