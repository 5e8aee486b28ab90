package ports

import "context"

// AdapterResolver materializes a provider directory's entry file into a
// module value. The value's contract (current or legacy) is not the
// resolver's concern; the loader type-discriminates afterwards.
type AdapterResolver interface {
	// Resolve returns the module value for the entry file at entryPath.
	Resolve(ctx context.Context, entryPath string) (any, error)
}
