package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/membench/membench/domain/entities"
	"github.com/membench/membench/domain/ports"
)

// LegacyContext is a legacy-contract adapter: unscoped, append-only, no
// delete. It exists so the legacy wrapper path stays exercised end to end;
// real legacy providers look exactly like this from the registry's point of
// view.
type LegacyContext struct {
	name string

	mu       sync.RWMutex
	prepared bool
	contexts []legacyEntry
}

type legacyEntry struct {
	id      string
	context string
}

// NewLegacyContext creates a legacy-shaped adapter with the given internal
// name. Note that after wrapping, the registry-visible name is the
// manifest's declared name, not this one.
func NewLegacyContext(name string) *LegacyContext {
	return &LegacyContext{name: name}
}

var _ ports.LegacyAdapter = (*LegacyContext)(nil)

func (l *LegacyContext) Name() string {
	return l.name
}

func (l *LegacyContext) PrepareProvider(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prepared = true
	return nil
}

func (l *LegacyContext) AddContext(_ context.Context, data map[string]any) error {
	text, _ := data["context"].(string)
	if text == "" {
		return fmt.Errorf("legacy provider %s: data has no context field", l.name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.contexts = append(l.contexts, legacyEntry{
		id:      fmt.Sprintf("ctx_%d", len(l.contexts)),
		context: text,
	})
	return nil
}

func (l *LegacyContext) SearchQuery(_ context.Context, query string) ([]entities.LegacySearchHit, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	hits := []entities.LegacySearchHit{}
	for _, e := range l.contexts {
		if query == "" || strings.Contains(e.context, query) {
			hits = append(hits, entities.LegacySearchHit{ID: e.id, Context: e.context, Score: 1.0})
		}
	}
	return hits, nil
}
