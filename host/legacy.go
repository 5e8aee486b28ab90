package host

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/membench/membench/domain/entities"
	domerrors "github.com/membench/membench/domain/errors"
	"github.com/membench/membench/domain/ports"
)

// legacyWrapper presents a legacy-shaped module as a current-contract
// adapter without mutating it. Its name is fixed at construction to the
// manifest's declared name; the wrapped module's own name field is never
// consulted after wrapping.
type legacyWrapper struct {
	name   string
	legacy ports.LegacyAdapter
}

// WrapLegacyAdapter adapts a legacy module to the current contract. The
// declared name (normally manifest.provider.name) becomes the wrapper's
// name.
func WrapLegacyAdapter(declaredName string, legacy ports.LegacyAdapter) ports.ProviderAdapter {
	return &legacyWrapper{name: declaredName, legacy: legacy}
}

func (w *legacyWrapper) Name() string {
	return w.name
}

// AddMemory packs the scope into a metadata envelope, hands it to the legacy
// AddContext, and synthesizes the record the current contract promises. The
// legacy call returns nothing about the stored entry, so the generated id is
// the only handle callers will ever have.
func (w *legacyWrapper) AddMemory(ctx context.Context, scope entities.MemoryScope, content string, metadata map[string]any) (entities.MemoryRecord, error) {
	id := uuid.NewString()

	envelope := make(map[string]any, len(metadata)+2)
	for k, v := range metadata {
		envelope[k] = v
	}
	envelope["_scope"] = scope.Fields()
	envelope["_generated_id"] = id

	if err := w.legacy.AddContext(ctx, map[string]any{
		"context":  content,
		"metadata": envelope,
	}); err != nil {
		return entities.MemoryRecord{}, fmt.Errorf("legacy addContext failed for %s: %w", w.name, err)
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	return entities.MemoryRecord{
		ID:        id,
		Context:   content,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}, nil
}

// RetrieveMemory forwards the query to the legacy search. The scope is
// accepted but not forwarded: the legacy contract has no scoping concept.
// A non-nil limit truncates after mapping; limit zero yields an empty slice,
// not "no limit".
func (w *legacyWrapper) RetrieveMemory(ctx context.Context, _ entities.MemoryScope, query string, limit *int) ([]entities.RetrievalItem, error) {
	hits, err := w.legacy.SearchQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("legacy searchQuery failed for %s: %w", w.name, err)
	}

	now := time.Now().UTC()
	items := make([]entities.RetrievalItem, 0, len(hits))
	for _, hit := range hits {
		items = append(items, entities.RetrievalItem{
			Record: entities.MemoryRecord{
				ID:        hit.ID,
				Context:   hit.Context,
				Metadata:  map[string]any{},
				Timestamp: now,
			},
			Score: hit.Score,
		})
	}

	if limit != nil && *limit >= 0 && len(items) > *limit {
		items = items[:*limit]
	}
	return items, nil
}

// DeleteMemory always fails: legacy adapters never support delete.
func (w *legacyWrapper) DeleteMemory(_ context.Context, _ entities.MemoryScope, _ string) (bool, error) {
	return false, &domerrors.UnsupportedOperationError{
		Provider:  w.name,
		Operation: entities.OpDeleteMemory,
	}
}
