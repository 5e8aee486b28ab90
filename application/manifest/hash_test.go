package manifest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashStableUnderKeyPermutation(t *testing.T) {
	// Same semantic content, keys shuffled at every nesting depth.
	docA := `{
		"manifest_version": "1",
		"provider": {"name": "p", "type": "hybrid", "version": "1.0.0"},
		"capabilities": {
			"core_operations": {"add_memory": true, "retrieve_memory": true, "delete_memory": true},
			"system_flags": {"async_indexing": false, "custom_flag": [1, 2, 3]},
			"intelligence_flags": {"auto_extraction": false, "graph_support": false}
		},
		"semantic_properties": {"update_strategy": "immediate", "delete_strategy": "eventual"}
	}`
	docB := `{
		"semantic_properties": {"delete_strategy": "eventual", "update_strategy": "immediate"},
		"capabilities": {
			"intelligence_flags": {"graph_support": false, "auto_extraction": false},
			"system_flags": {"custom_flag": [1, 2, 3], "async_indexing": false},
			"core_operations": {"delete_memory": true, "add_memory": true, "retrieve_memory": true}
		},
		"provider": {"version": "1.0.0", "name": "p", "type": "hybrid"},
		"manifest_version": "1"
	}`

	hashA, err := HashRaw([]byte(docA))
	require.NoError(t, err)
	hashB, err := HashRaw([]byte(docB))
	require.NoError(t, err)
	assert.Equal(t, hashA, hashB)
	assert.Len(t, hashA, 64)
}

func TestHashDiffersOnContentChange(t *testing.T) {
	hashA, err := HashRaw([]byte(`{"a": 1}`))
	require.NoError(t, err)
	hashB, err := HashRaw([]byte(`{"a": 2}`))
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashB)
}

func TestHashCoversPreservedUnknownFields(t *testing.T) {
	base := `{
		"manifest_version": "1",
		"provider": {"name": "p", "type": "framework", "version": "1.0.0"},
		"capabilities": {
			"core_operations": {"add_memory": true, "retrieve_memory": true, "delete_memory": true},
			"system_flags": {"async_indexing": false},
			"intelligence_flags": {"auto_extraction": false, "graph_support": false}
		},
		"semantic_properties": {"update_strategy": "immediate", "delete_strategy": "immediate"}
	}`
	withExtra := `{
		"manifest_version": "1",
		"x_custom": "extension",
		"provider": {"name": "p", "type": "framework", "version": "1.0.0"},
		"capabilities": {
			"core_operations": {"add_memory": true, "retrieve_memory": true, "delete_memory": true},
			"system_flags": {"async_indexing": false},
			"intelligence_flags": {"auto_extraction": false, "graph_support": false}
		},
		"semantic_properties": {"update_strategy": "immediate", "delete_strategy": "immediate"}
	}`

	parser := NewParser()
	mBase, err := parser.Parse([]byte(base))
	require.NoError(t, err)
	mExtra, err := parser.Parse([]byte(withExtra))
	require.NoError(t, err)

	hashBase, err := Hash(mBase)
	require.NoError(t, err)
	hashExtra, err := Hash(mExtra)
	require.NoError(t, err)

	// The preserved unknown field must influence the hash; losing it on
	// re-serialization would make the two equal.
	assert.NotEqual(t, hashBase, hashExtra)

	// Hashing the typed manifest equals hashing the raw document.
	rawHash, err := HashRaw([]byte(withExtra))
	require.NoError(t, err)
	assert.Equal(t, rawHash, hashExtra)
}

func TestParserRejectsNonObject(t *testing.T) {
	_, err := NewParser().Parse([]byte(`[1, 2]`))
	require.Error(t, err)
}

func TestParsedManifestReserializes(t *testing.T) {
	doc := `{"manifest_version":"1","provider":{"name":"p","type":"hybrid","version":"1.0.0"},"capabilities":{"core_operations":{"add_memory":true,"retrieve_memory":true,"delete_memory":true},"system_flags":{"async_indexing":true},"intelligence_flags":{"auto_extraction":true,"graph_support":false}},"semantic_properties":{"update_strategy":"versioned","delete_strategy":"soft_delete"}}`
	m, err := NewParser().Parse([]byte(doc))
	require.NoError(t, err)

	out, err := json.Marshal(m)
	require.NoError(t, err)

	var original, reserialized map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &original))
	require.NoError(t, json.Unmarshal(out, &reserialized))
	assert.Equal(t, original, reserialized)
}
