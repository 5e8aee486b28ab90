package ports

import (
	"context"

	"github.com/membench/membench/domain/entities"
)

// LegacyAdapter is the old ad-hoc provider contract, kept for backward
// compatibility. Its method set shares no names with ProviderAdapter beyond
// Name, so a loaded module matches exactly one of the two contracts and
// runtime discrimination is unambiguous.
//
// Legacy adapters have no scoping concept and no delete operation; the
// legacy wrapper in package host papers over the first and surfaces the
// second as an unsupported-operation error.
type LegacyAdapter interface {
	Name() string

	// AddContext stores an opaque data envelope. The legacy contract returns
	// nothing about the stored entry.
	AddContext(ctx context.Context, data map[string]any) error

	// SearchQuery returns flat hits for the query, unscoped.
	SearchQuery(ctx context.Context, query string) ([]entities.LegacySearchHit, error)

	// PrepareProvider performs whatever one-time setup the provider needs.
	PrepareProvider(ctx context.Context) error
}
