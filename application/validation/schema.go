package validation

import (
	"bytes"
	"encoding/json"
	"fmt"

	genschema "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The schema model mirrors the manifest entities without their custom JSON
// round-trip machinery. The structural stage validates raw documents against
// a JSON Schema reflected from these structs, so required fields and enums
// are declared exactly once, in tags. AllowAdditionalProperties stays on:
// unknown keys are preserved, never rejected.

type manifestSchema struct {
	ManifestVersion    string             `json:"manifest_version"`
	Provider           providerSchema     `json:"provider"`
	Capabilities       capabilitiesSchema `json:"capabilities"`
	SemanticProperties semanticSchema     `json:"semantic_properties"`
	ConformanceTests   *conformanceSchema `json:"conformance_tests,omitempty"`
}

type providerSchema struct {
	Name    string `json:"name" jsonschema:"minLength=1"`
	Type    string `json:"type" jsonschema:"enum=intelligent_memory,enum=hybrid,enum=framework"`
	Version string `json:"version" jsonschema:"minLength=1"`
}

type capabilitiesSchema struct {
	CoreOperations     coreOpsSchema      `json:"core_operations"`
	OptionalOperations *optionalOpsSchema `json:"optional_operations,omitempty"`
	SystemFlags        systemFlagsSchema  `json:"system_flags"`
	IntelligenceFlags  intelligenceSchema `json:"intelligence_flags"`
}

type coreOpsSchema struct {
	AddMemory      bool `json:"add_memory"`
	RetrieveMemory bool `json:"retrieve_memory"`
	DeleteMemory   bool `json:"delete_memory"`
}

type optionalOpsSchema struct {
	UpdateMemory    *bool `json:"update_memory,omitempty"`
	ListMemories    *bool `json:"list_memories,omitempty"`
	ResetScope      *bool `json:"reset_scope,omitempty"`
	GetCapabilities *bool `json:"get_capabilities,omitempty"`
}

type systemFlagsSchema struct {
	AsyncIndexing     bool `json:"async_indexing"`
	ProcessingLatency *int `json:"processing_latency,omitempty" jsonschema:"minimum=0"`
	ConvergenceWaitMS *int `json:"convergence_wait_ms,omitempty" jsonschema:"minimum=0"`
}

type intelligenceSchema struct {
	AutoExtraction bool   `json:"auto_extraction"`
	GraphSupport   bool   `json:"graph_support"`
	GraphType      string `json:"graph_type,omitempty"`
}

type semanticSchema struct {
	UpdateStrategy string `json:"update_strategy" jsonschema:"enum=immediate,enum=eventual,enum=versioned,enum=immutable"`
	DeleteStrategy string `json:"delete_strategy" jsonschema:"enum=immediate,enum=eventual,enum=soft_delete"`
}

type conformanceSchema struct {
	ExpectedBehavior *expectedBehaviorSchema `json:"expected_behavior,omitempty"`
}

type expectedBehaviorSchema struct {
	ConvergenceWaitMS int `json:"convergence_wait_ms" jsonschema:"minimum=0"`
}

// compileSchemas builds the compiled JSON Schema per supported manifest
// version. Version "1" is the only schema today; new versions add entries
// here without touching the validator pipeline.
func compileSchemas() (map[string]*jsonschema.Schema, error) {
	reflector := &genschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	generated := reflector.Reflect(&manifestSchema{})
	data, err := json.Marshal(generated)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generated manifest schema: %w", err)
	}

	const url = "membench://schemas/provider-manifest/v1.json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add manifest schema resource: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile manifest schema: %w", err)
	}

	return map[string]*jsonschema.Schema{"1": compiled}, nil
}
