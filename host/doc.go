// Package host is the loading side of the provider plugin system: it
// discovers candidate provider directories, materializes their adapter
// modules through pluggable resolvers, discriminates the current contract
// from the legacy one, and wraps legacy modules so downstream consumers see
// a single uniform contract.
package host
