package modules

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndResolve(t *testing.T) {
	type mod struct{ tag string }

	Register("tbl-alpha", func() any { return &mod{tag: "a"} })
	t.Cleanup(func() { Unregister("tbl-alpha") })

	r := NewResolver()
	got, err := r.Resolve(context.Background(), "/base/providers/tbl-alpha/index.go")
	require.NoError(t, err)
	assert.Equal(t, "a", got.(*mod).tag)

	// Each Resolve builds a fresh value.
	again, err := r.Resolve(context.Background(), "/base/providers/tbl-alpha/index.go")
	require.NoError(t, err)
	assert.NotSame(t, got.(*mod), again.(*mod))
}

func TestResolveUnknownKey(t *testing.T) {
	r := NewResolver()
	_, err := r.Resolve(context.Background(), "/base/providers/tbl-nowhere/index.go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tbl-nowhere")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("tbl-dup", func() any { return nil })
	t.Cleanup(func() { Unregister("tbl-dup") })

	assert.Panics(t, func() {
		Register("tbl-dup", func() any { return nil })
	})
}

func TestRegisterNilBuilderPanics(t *testing.T) {
	assert.Panics(t, func() {
		Register("tbl-nil", nil)
	})
}

func TestKeysSorted(t *testing.T) {
	Register("tbl-z", func() any { return nil })
	Register("tbl-a", func() any { return nil })
	t.Cleanup(func() {
		Unregister("tbl-z")
		Unregister("tbl-a")
	})

	keys := Keys()
	assert.Contains(t, keys, "tbl-a")
	assert.Contains(t, keys, "tbl-z")
	assert.True(t, sort.StringsAreSorted(keys), "keys not sorted: %v", keys)
}
