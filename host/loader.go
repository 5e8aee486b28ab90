package host

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	domerrors "github.com/membench/membench/domain/errors"
	"github.com/membench/membench/domain/ports"
)

// Contract is the variant tag of a loaded adapter module, decided once at
// load time rather than re-tested on every call.
type Contract int

const (
	// ContractNone means the module satisfies neither contract.
	ContractNone Contract = iota
	// ContractCurrent is the structural ProviderAdapter contract.
	ContractCurrent
	// ContractLegacy is the old addContext/searchQuery/prepareProvider shape.
	ContractLegacy
)

func (c Contract) String() string {
	switch c {
	case ContractCurrent:
		return "current"
	case ContractLegacy:
		return "legacy"
	default:
		return "none"
	}
}

// DetectContract applies the structural predicates in order: current
// contract first, then legacy. The two method sets are disjoint by
// construction, so a conforming module matches exactly one.
func DetectContract(module any) Contract {
	if _, ok := module.(ports.ProviderAdapter); ok {
		return ContractCurrent
	}
	if _, ok := module.(ports.LegacyAdapter); ok {
		return ContractLegacy
	}
	return ContractNone
}

// Loader materializes adapter modules and normalizes them to the current
// contract. Resolvers are keyed by the entry file's extension; unknown
// extensions fall back to the default resolver.
type Loader struct {
	resolvers       map[string]ports.AdapterResolver
	defaultResolver ports.AdapterResolver
}

// LoaderOption configures the Loader.
type LoaderOption func(*Loader)

// WithResolver routes entry files with the given extension (e.g. ".wasm")
// to a dedicated resolver.
func WithResolver(ext string, r ports.AdapterResolver) LoaderOption {
	return func(l *Loader) {
		l.resolvers[strings.ToLower(ext)] = r
	}
}

// WithDefaultResolver sets the resolver used for entry extensions with no
// dedicated resolver.
func WithDefaultResolver(r ports.AdapterResolver) LoaderOption {
	return func(l *Loader) {
		l.defaultResolver = r
	}
}

// NewLoader creates a Loader. A default resolver must be supplied via
// WithDefaultResolver or the loader fails every candidate.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{resolvers: make(map[string]ports.AdapterResolver)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadAdapter resolves the entry file into a module value, discriminates
// its contract, and wraps legacy modules transparently. declaredName is the
// manifest's provider name; it only affects the legacy wrapper, never the
// name of a current-contract adapter.
func (l *Loader) LoadAdapter(ctx context.Context, entryPath, declaredName string) (ports.ProviderAdapter, error) {
	resolver := l.resolverFor(entryPath)
	if resolver == nil {
		return nil, &domerrors.LoadError{
			Provider: declaredName,
			Code:     domerrors.CodeImportFailed,
			Message:  fmt.Sprintf("no resolver for adapter entry %s", entryPath),
		}
	}

	module, err := resolver.Resolve(ctx, entryPath)
	if err != nil {
		return nil, &domerrors.LoadError{
			Provider: declaredName,
			Code:     domerrors.CodeImportFailed,
			Message:  fmt.Sprintf("failed to load adapter module from %s", entryPath),
			Cause:    err,
		}
	}

	switch DetectContract(module) {
	case ContractCurrent:
		return module.(ports.ProviderAdapter), nil
	case ContractLegacy:
		return WrapLegacyAdapter(declaredName, module.(ports.LegacyAdapter)), nil
	default:
		return nil, &domerrors.LoadError{
			Provider: declaredName,
			Code:     domerrors.CodeInvalidInterface,
			Message:  fmt.Sprintf("module at %s satisfies neither the current nor the legacy adapter contract", entryPath),
		}
	}
}

func (l *Loader) resolverFor(entryPath string) ports.AdapterResolver {
	ext := strings.ToLower(filepath.Ext(entryPath))
	if r, ok := l.resolvers[ext]; ok {
		return r
	}
	return l.defaultResolver
}
