package ports

import "github.com/membench/membench/domain/entities"

// ManifestParser decodes raw manifest bytes into a ProviderManifest,
// preserving unknown fields.
type ManifestParser interface {
	Parse(data []byte) (*entities.ProviderManifest, error)
}

// ManifestValidator runs the full validation pipeline over raw manifest
// bytes. On failure the returned error is a *errors.ManifestValidationError
// carrying one FieldError per violated constraint.
type ManifestValidator interface {
	Validate(raw []byte, path string) (*entities.ProviderManifest, error)
}
