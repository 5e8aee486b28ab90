package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/membench/membench/domain/entities"
)

// Hash computes the canonical SHA-256 hash of a manifest. The document is
// re-serialized (typed fields merged with preserved unknown keys) and run
// through RFC 8785 canonicalization, which sorts object keys at every
// nesting depth. Two manifests with identical semantic content but different
// key order therefore hash identically.
func Hash(m *entities.ProviderManifest) (string, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to serialize manifest: %w", err)
	}
	return HashRaw(data)
}

// HashRaw canonicalizes and hashes an already-serialized manifest document.
func HashRaw(data []byte) (string, error) {
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize manifest: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
