// Package registry orchestrates provider loading: discovery, manifest
// validation, adapter loading and contract detection, capability
// cross-checks, and dedupe. Initialization is load-partial: one malformed
// candidate never aborts the others.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/membench/membench/application/validation"
	"github.com/membench/membench/domain/entities"
	domerrors "github.com/membench/membench/domain/errors"
	"github.com/membench/membench/domain/ports"
	"github.com/membench/membench/host"
	"github.com/membench/membench/infrastructure/modules"
)

// State is the registry lifecycle state. The machine is terminal once
// READY; only an explicit Reset returns to UNINITIALIZED.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateReady:
		return "READY"
	default:
		return "UNINITIALIZED"
	}
}

// Entry is the run-time unit the registry publishes: a loaded adapter, its
// validated manifest, and the directory both came from. Entries are created
// during initialization and immutable thereafter.
type Entry struct {
	Adapter  ports.ProviderAdapter
	Manifest *entities.ProviderManifest
	Path     string
}

// Result aggregates everything initialization produced. It is the terminal
// artifact: whatever loaded, plus the full warning and error lists.
type Result struct {
	Providers []*Entry
	Warnings  []domerrors.LoadWarning
	Errors    []*domerrors.LoadError
}

// Registry loads providers from a base directory and publishes them under
// one uniform contract. Construct explicitly with New; Default offers a
// lazily-built shared instance for process entry points.
type Registry struct {
	baseDir   string
	validator ports.ManifestValidator
	loader    *host.Loader
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	entries map[string]*Entry // lowercased name -> entry
	order   []string          // registration order of lowercased names
	result  *Result
}

// Option configures a Registry.
type Option func(*Registry)

// WithValidator replaces the manifest validator.
func WithValidator(v ports.ManifestValidator) Option {
	return func(r *Registry) {
		r.validator = v
	}
}

// WithLoader replaces the adapter loader.
func WithLoader(l *host.Loader) Option {
	return func(r *Registry) {
		r.loader = l
	}
}

// WithLogger sets the structured logger used for discovery diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates a Registry rooted at baseDir (the directory containing
// providers/). Nothing is scanned until Initialize.
func New(baseDir string, opts ...Option) *Registry {
	r := &Registry{
		baseDir: baseDir,
		logger:  slog.Default(),
		entries: make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.validator == nil {
		r.validator = validation.NewManifestValidator()
	}
	if r.loader == nil {
		r.loader = host.NewLoader(host.WithDefaultResolver(modules.NewResolver()))
	}
	return r
}

// Initialize runs discovery and the per-candidate pipeline exactly once.
// Calling it again while READY returns the cached result without
// re-scanning; this idempotence is a guarantee, not an accident. The only
// hard failure is a missing providers root; every per-candidate failure is
// collected into the result instead.
func (r *Registry) Initialize(ctx context.Context) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateReady {
		return r.result, nil
	}
	r.state = StateInitializing

	manifests, err := host.DiscoverManifests(r.baseDir)
	if err != nil {
		r.state = StateUninitialized
		return nil, err
	}
	entries, err := host.DiscoverAdapterEntries(r.baseDir)
	if err != nil {
		r.state = StateUninitialized
		return nil, err
	}

	result := &Result{}
	for _, c := range candidates(manifests, entries) {
		r.loadCandidate(ctx, c, result)
	}

	r.result = result
	r.state = StateReady
	return result, nil
}

// candidate pairs a provider directory with whichever of its two files
// discovery found.
type candidate struct {
	dir          string
	manifestPath string // empty if missing
	entryPath    string // empty if missing
}

// candidates merges the two discovery passes by directory, sorted by
// directory path so duplicate resolution is deterministic.
func candidates(manifests, entries []string) []candidate {
	byDir := make(map[string]*candidate)
	for _, m := range manifests {
		dir := filepath.Dir(m)
		byDir[dir] = &candidate{dir: dir, manifestPath: m}
	}
	for _, e := range entries {
		dir := filepath.Dir(e)
		c, ok := byDir[dir]
		if !ok {
			c = &candidate{dir: dir}
			byDir[dir] = c
		}
		if c.entryPath == "" {
			c.entryPath = e
		}
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	out := make([]candidate, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, *byDir[dir])
	}
	return out
}

// loadCandidate runs the pipeline for one provider directory. Failures are
// recorded on result and never propagate; the caller holds the lock, so the
// final insertion is serialized and "first registrant wins" is well-defined.
func (r *Registry) loadCandidate(ctx context.Context, c candidate, result *Result) {
	dirName := filepath.Base(c.dir)

	if c.manifestPath == "" {
		r.logger.Warn("provider has adapter but no manifest, skipping",
			"provider", dirName, "dir", c.dir)
		result.Warnings = append(result.Warnings, domerrors.LoadWarning{
			Provider: dirName,
			Code:     domerrors.CodeMissingManifest,
			Message:  fmt.Sprintf("no %s next to adapter entry %s", host.ManifestFileName, c.entryPath),
		})
		return
	}

	raw, err := os.ReadFile(c.manifestPath)
	if err != nil {
		result.Errors = append(result.Errors, &domerrors.LoadError{
			Provider: dirName,
			Code:     domerrors.CodeInvalidManifest,
			Message:  fmt.Sprintf("failed to read %s", c.manifestPath),
			Cause:    err,
		})
		return
	}

	m, err := r.validator.Validate(raw, c.manifestPath)
	if err != nil {
		result.Errors = append(result.Errors, &domerrors.LoadError{
			Provider: dirName,
			Code:     domerrors.CodeInvalidManifest,
			Message:  "manifest validation failed",
			Cause:    err,
		})
		return
	}
	declared := m.Provider.Name

	if c.entryPath == "" {
		result.Errors = append(result.Errors, &domerrors.LoadError{
			Provider: declared,
			Code:     domerrors.CodeMissingAdapter,
			Message:  fmt.Sprintf("no index.* adapter entry in %s", c.dir),
		})
		return
	}

	adapter, err := r.loader.LoadAdapter(ctx, c.entryPath, declared)
	if err != nil {
		var le *domerrors.LoadError
		if errors.As(err, &le) {
			result.Errors = append(result.Errors, le)
		} else {
			result.Errors = append(result.Errors, &domerrors.LoadError{
				Provider: declared,
				Code:     domerrors.CodeImportFailed,
				Message:  "adapter loading failed",
				Cause:    err,
			})
		}
		return
	}

	if adapter.Name() != declared {
		result.Errors = append(result.Errors, &domerrors.LoadError{
			Provider: declared,
			Code:     domerrors.CodeNameMismatch,
			Message:  fmt.Sprintf("adapter name %q does not match manifest provider name %q", adapter.Name(), declared),
		})
		return
	}

	if !r.checkCapabilities(m, adapter, result) {
		return
	}

	key := strings.ToLower(declared)
	if _, exists := r.entries[key]; exists {
		result.Errors = append(result.Errors, &domerrors.LoadError{
			Provider: declared,
			Code:     domerrors.CodeDuplicateName,
			Message:  fmt.Sprintf("provider name %q already registered; first registrant wins", declared),
		})
		return
	}

	entry := &Entry{Adapter: adapter, Manifest: m, Path: c.dir}
	r.entries[key] = entry
	r.order = append(r.order, key)
	result.Providers = append(result.Providers, entry)
	r.logger.Debug("registered provider",
		"provider", declared, "type", m.Provider.Type, "dir", c.dir)
}

// checkCapabilities cross-checks declared optional operations against the
// adapter's method set. Declared-but-missing is a hard error excluding the
// candidate; present-but-undeclared only warns.
func (r *Registry) checkCapabilities(m *entities.ProviderManifest, adapter ports.ProviderAdapter, result *Result) bool {
	declared := make(map[string]bool)
	for _, op := range m.Capabilities.OptionalOperations.Declared() {
		declared[op] = true
	}

	ok := true
	for _, op := range entities.OptionalOperationNames {
		has := ports.SupportsOperation(adapter, op)
		switch {
		case declared[op] && !has:
			ok = false
			result.Errors = append(result.Errors, &domerrors.LoadError{
				Provider: m.Provider.Name,
				Code:     domerrors.CodeMissingDeclaredMethod,
				Message:  fmt.Sprintf("manifest declares %s but the adapter does not implement it", op),
			})
		case has && !declared[op]:
			result.Warnings = append(result.Warnings, domerrors.LoadWarning{
				Provider: m.Provider.Name,
				Code:     domerrors.CodeCapabilityMismatch,
				Message:  fmt.Sprintf("adapter implements %s but the manifest does not declare it", op),
			})
		}
	}
	return ok
}

// GetProvider looks up a registered provider. Lookup is case-insensitive so
// callers cannot silently miss on declared-case differences.
func (r *Registry) GetProvider(name string) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[strings.ToLower(name)]
	return e, ok
}

// ListProviders returns registered entries in registration order.
func (r *Registry) ListProviders() []*Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Entry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key])
	}
	return out
}

// State reports the lifecycle state.
func (r *Registry) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Reset returns the registry to UNINITIALIZED, discarding all entries and
// the cached result. Primarily for test isolation.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateUninitialized
	r.entries = make(map[string]*Entry)
	r.order = nil
	r.result = nil
}

var (
	defaultMu       sync.Mutex
	defaultInstance *Registry
)

// Default returns the process-wide registry for baseDir, building it on
// first call. The instance is constructed here, explicitly, at the call
// site that owns process startup; it is not hidden behind package init.
func Default(baseDir string, opts ...Option) *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultInstance == nil {
		defaultInstance = New(baseDir, opts...)
	}
	return defaultInstance
}

// ResetDefault discards the process-wide instance. For test isolation.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultInstance = nil
}
