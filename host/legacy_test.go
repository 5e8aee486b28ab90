package host

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membench/membench/domain/entities"
	domerrors "github.com/membench/membench/domain/errors"
)

// recordingLegacy captures legacy calls so tests can inspect the envelope
// the wrapper builds.
type recordingLegacy struct {
	addCalls  []map[string]any
	hits      []entities.LegacySearchHit
	addErr    error
	searchErr error
}

func (r *recordingLegacy) Name() string { return "legacy-internal-name" }

func (r *recordingLegacy) AddContext(_ context.Context, data map[string]any) error {
	r.addCalls = append(r.addCalls, data)
	return r.addErr
}

func (r *recordingLegacy) SearchQuery(_ context.Context, _ string) ([]entities.LegacySearchHit, error) {
	return r.hits, r.searchErr
}

func (r *recordingLegacy) PrepareProvider(_ context.Context) error { return nil }

func testScope() entities.MemoryScope {
	return entities.MemoryScope{
		UserID:    "user-1",
		RunID:     "run-1",
		SessionID: "sess-1",
		Namespace: "ns-1",
	}
}

func TestWrapperUsesDeclaredName(t *testing.T) {
	legacy := &recordingLegacy{}
	w := WrapLegacyAdapter("declared-name", legacy)
	assert.Equal(t, "declared-name", w.Name())
	assert.NotEqual(t, legacy.Name(), w.Name())
}

func TestWrapperAddMemoryEnvelope(t *testing.T) {
	legacy := &recordingLegacy{}
	w := WrapLegacyAdapter("acme", legacy)

	rec, err := w.AddMemory(context.Background(), testScope(), "remember this", map[string]any{"source": "test"})
	require.NoError(t, err)
	require.Len(t, legacy.addCalls, 1)

	call := legacy.addCalls[0]
	assert.Equal(t, "remember this", call["context"])

	meta, ok := call["metadata"].(map[string]any)
	require.True(t, ok, "metadata envelope missing: %v", call)
	assert.Equal(t, "test", meta["source"])
	assert.Equal(t, rec.ID, meta["_generated_id"])
	assert.Equal(t, testScope().Fields(), meta["_scope"])

	// The synthesized record keeps the caller's metadata clean of envelope
	// keys.
	assert.Equal(t, "remember this", rec.Context)
	assert.NotEmpty(t, rec.ID)
	assert.NotContains(t, rec.Metadata, "_scope")
	assert.NotContains(t, rec.Metadata, "_generated_id")
	assert.False(t, rec.Timestamp.IsZero())
}

func TestWrapperAddMemoryNilMetadata(t *testing.T) {
	legacy := &recordingLegacy{}
	w := WrapLegacyAdapter("acme", legacy)

	rec, err := w.AddMemory(context.Background(), testScope(), "content", nil)
	require.NoError(t, err)
	assert.NotNil(t, rec.Metadata)
	assert.Empty(t, rec.Metadata)
}

func TestWrapperAddMemoryPropagatesError(t *testing.T) {
	legacy := &recordingLegacy{addErr: errors.New("backend down")}
	w := WrapLegacyAdapter("acme", legacy)

	_, err := w.AddMemory(context.Background(), testScope(), "content", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "backend down")
	assert.ErrorContains(t, err, "acme")
}

func TestWrapperRetrieveMemoryMapsHits(t *testing.T) {
	legacy := &recordingLegacy{hits: []entities.LegacySearchHit{
		{ID: "h1", Context: "first", Score: 0.9},
		{ID: "h2", Context: "second", Score: 0.4},
	}}
	w := WrapLegacyAdapter("acme", legacy)

	items, err := w.RetrieveMemory(context.Background(), testScope(), "anything", nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "h1", items[0].Record.ID)
	assert.Equal(t, "first", items[0].Record.Context)
	assert.InDelta(t, 0.9, items[0].Score, 1e-9)
	assert.Equal(t, "h2", items[1].Record.ID)
}

func TestWrapperRetrieveMemoryLimit(t *testing.T) {
	hits := make([]entities.LegacySearchHit, 5)
	for i := range hits {
		hits[i] = entities.LegacySearchHit{ID: fmt.Sprintf("h%d", i), Context: "x", Score: 1}
	}
	legacy := &recordingLegacy{hits: hits}
	w := WrapLegacyAdapter("acme", legacy)

	limit := func(n int) *int { return &n }

	tests := []struct {
		name  string
		limit *int
		want  int
	}{
		{"nil limit keeps everything", nil, 5},
		{"limit below result count truncates", limit(2), 2},
		{"limit above result count is a no-op", limit(10), 5},
		{"zero limit yields empty", limit(0), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := w.RetrieveMemory(context.Background(), testScope(), "q", tc.limit)
			require.NoError(t, err)
			assert.Len(t, items, tc.want)
		})
	}
}

func TestWrapperDeleteMemoryUnsupported(t *testing.T) {
	w := WrapLegacyAdapter("acme", &recordingLegacy{})

	deleted, err := w.DeleteMemory(context.Background(), testScope(), "id-1")
	assert.False(t, deleted)

	var uoe *domerrors.UnsupportedOperationError
	require.True(t, errors.As(err, &uoe))
	assert.Equal(t, "acme", uoe.Provider)
	assert.Equal(t, entities.OpDeleteMemory, uoe.Operation)
	assert.Contains(t, err.Error(), "delete_memory")
}
