// Package manifest handles the provider manifest document format: strict
// JSON decoding with unknown-field preservation, and canonical hashing.
package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/membench/membench/domain/entities"
	"github.com/membench/membench/domain/ports"
)

// Parser implements ports.ManifestParser for JSON manifest documents.
type Parser struct{}

// NewParser creates a JSON manifest parser.
func NewParser() *Parser {
	return &Parser{}
}

var _ ports.ManifestParser = (*Parser)(nil)

// Parse unmarshals manifest bytes. Unknown keys at every nesting level are
// preserved in the entity Extra maps; a document that is not a JSON object
// fails here rather than in validation.
func (p *Parser) Parse(data []byte) (*entities.ProviderManifest, error) {
	var m entities.ProviderManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
