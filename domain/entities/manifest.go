package entities

import "encoding/json"

// SupportedManifestVersions enumerates the manifest_version values this
// registry understands. Order is the order reported in error messages.
var SupportedManifestVersions = []string{"1"}

// Provider type enum values.
const (
	ProviderTypeIntelligentMemory = "intelligent_memory"
	ProviderTypeHybrid            = "hybrid"
	ProviderTypeFramework         = "framework"
)

// ProviderManifest is the declarative description of a provider, loaded from
// its manifest.json. Unknown keys at every object level are preserved in the
// Extra maps and merged back verbatim on re-serialization.
type ProviderManifest struct {
	ManifestVersion    string                     `json:"manifest_version" validate:"required"`
	Provider           ProviderInfo               `json:"provider"`
	Capabilities       Capabilities               `json:"capabilities"`
	SemanticProperties SemanticProperties         `json:"semantic_properties"`
	ConformanceTests   *ConformanceTests          `json:"conformance_tests,omitempty"`
	Extra              map[string]json.RawMessage `json:"-"`
}

// ProviderInfo identifies a provider. The declared Name is authoritative: it
// must match the adapter's reported name and is the registry key.
type ProviderInfo struct {
	Name    string                     `json:"name" validate:"required"`
	Type    string                     `json:"type" validate:"required,oneof=intelligent_memory hybrid framework"`
	Version string                     `json:"version" validate:"required"`
	Extra   map[string]json.RawMessage `json:"-"`
}

// SemanticProperties declare the consistency contract of the provider's
// write operations.
type SemanticProperties struct {
	UpdateStrategy string                     `json:"update_strategy" validate:"required,oneof=immediate eventual versioned immutable"`
	DeleteStrategy string                     `json:"delete_strategy" validate:"required,oneof=immediate eventual soft_delete"`
	Extra          map[string]json.RawMessage `json:"-"`
}

// ConformanceTests carries expectations the benchmark suites assert against.
type ConformanceTests struct {
	ExpectedBehavior *ExpectedBehavior          `json:"expected_behavior,omitempty"`
	Extra            map[string]json.RawMessage `json:"-"`
}

// ExpectedBehavior declares timing expectations, most importantly the
// convergence wait: how long callers must wait after a write before reads are
// guaranteed to observe it.
type ExpectedBehavior struct {
	ConvergenceWaitMS int                        `json:"convergence_wait_ms" validate:"gte=0"`
	Extra             map[string]json.RawMessage `json:"-"`
}

func (m *ProviderManifest) UnmarshalJSON(data []byte) error {
	type alias ProviderManifest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtras(data, "manifest_version", "provider", "capabilities", "semantic_properties", "conformance_tests")
	if err != nil {
		return err
	}
	a.Extra = extra
	*m = ProviderManifest(a)
	return nil
}

func (m ProviderManifest) MarshalJSON() ([]byte, error) {
	type alias ProviderManifest
	return mergeExtras(alias(m), m.Extra)
}

func (p *ProviderInfo) UnmarshalJSON(data []byte) error {
	type alias ProviderInfo
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtras(data, "name", "type", "version")
	if err != nil {
		return err
	}
	a.Extra = extra
	*p = ProviderInfo(a)
	return nil
}

func (p ProviderInfo) MarshalJSON() ([]byte, error) {
	type alias ProviderInfo
	return mergeExtras(alias(p), p.Extra)
}

func (s *SemanticProperties) UnmarshalJSON(data []byte) error {
	type alias SemanticProperties
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtras(data, "update_strategy", "delete_strategy")
	if err != nil {
		return err
	}
	a.Extra = extra
	*s = SemanticProperties(a)
	return nil
}

func (s SemanticProperties) MarshalJSON() ([]byte, error) {
	type alias SemanticProperties
	return mergeExtras(alias(s), s.Extra)
}

func (c *ConformanceTests) UnmarshalJSON(data []byte) error {
	type alias ConformanceTests
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtras(data, "expected_behavior")
	if err != nil {
		return err
	}
	a.Extra = extra
	*c = ConformanceTests(a)
	return nil
}

func (c ConformanceTests) MarshalJSON() ([]byte, error) {
	type alias ConformanceTests
	return mergeExtras(alias(c), c.Extra)
}

func (e *ExpectedBehavior) UnmarshalJSON(data []byte) error {
	type alias ExpectedBehavior
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtras(data, "convergence_wait_ms")
	if err != nil {
		return err
	}
	a.Extra = extra
	*e = ExpectedBehavior(a)
	return nil
}

func (e ExpectedBehavior) MarshalJSON() ([]byte, error) {
	type alias ExpectedBehavior
	return mergeExtras(alias(e), e.Extra)
}
