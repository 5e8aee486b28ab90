package entities

import "encoding/json"

// Operation names shared between manifests and the adapter contract.
const (
	OpAddMemory       = "add_memory"
	OpRetrieveMemory  = "retrieve_memory"
	OpDeleteMemory    = "delete_memory"
	OpUpdateMemory    = "update_memory"
	OpListMemories    = "list_memories"
	OpResetScope      = "reset_scope"
	OpGetCapabilities = "get_capabilities"
)

// CoreOperationNames lists the operations every current-contract adapter
// must implement.
var CoreOperationNames = []string{OpAddMemory, OpRetrieveMemory, OpDeleteMemory}

// OptionalOperationNames lists the operations an adapter may implement and
// must declare in its manifest.
var OptionalOperationNames = []string{OpUpdateMemory, OpListMemories, OpResetScope, OpGetCapabilities}

// Capabilities is the manifest's capability block: what the provider can do
// and how its indexing behaves.
type Capabilities struct {
	CoreOperations     CoreOperations             `json:"core_operations"`
	OptionalOperations OptionalOperations         `json:"optional_operations,omitempty"`
	SystemFlags        SystemFlags                `json:"system_flags"`
	IntelligenceFlags  IntelligenceFlags          `json:"intelligence_flags"`
	Extra              map[string]json.RawMessage `json:"-"`
}

// CoreOperations flags the mandatory operations. All three must be present
// in the manifest; a provider that cannot perform one of them does not
// conform to the contract at all.
type CoreOperations struct {
	AddMemory      bool                       `json:"add_memory"`
	RetrieveMemory bool                       `json:"retrieve_memory"`
	DeleteMemory   bool                       `json:"delete_memory"`
	Extra          map[string]json.RawMessage `json:"-"`
}

// OptionalOperations flags operations an adapter may implement. Absent and
// false are equivalent for conformance checking.
type OptionalOperations struct {
	UpdateMemory    *bool                      `json:"update_memory,omitempty"`
	ListMemories    *bool                      `json:"list_memories,omitempty"`
	ResetScope      *bool                      `json:"reset_scope,omitempty"`
	GetCapabilities *bool                      `json:"get_capabilities,omitempty"`
	Extra           map[string]json.RawMessage `json:"-"`
}

// Declared returns the optional operation names the manifest declares true.
func (o OptionalOperations) Declared() []string {
	var ops []string
	for _, f := range []struct {
		name string
		flag *bool
	}{
		{OpUpdateMemory, o.UpdateMemory},
		{OpListMemories, o.ListMemories},
		{OpResetScope, o.ResetScope},
		{OpGetCapabilities, o.GetCapabilities},
	} {
		if f.flag != nil && *f.flag {
			ops = append(ops, f.name)
		}
	}
	return ops
}

// SystemFlags describe the provider's indexing behavior and the latency the
// benchmark must budget for.
type SystemFlags struct {
	AsyncIndexing     bool                       `json:"async_indexing"`
	ProcessingLatency *int                       `json:"processing_latency,omitempty" validate:"omitempty,gte=0"`
	ConvergenceWaitMS *int                       `json:"convergence_wait_ms,omitempty" validate:"omitempty,gte=0"`
	Extra             map[string]json.RawMessage `json:"-"`
}

// IntelligenceFlags describe automatic enrichment the provider performs on
// ingested memories.
type IntelligenceFlags struct {
	AutoExtraction bool                       `json:"auto_extraction"`
	GraphSupport   bool                       `json:"graph_support"`
	GraphType      string                     `json:"graph_type,omitempty"`
	Extra          map[string]json.RawMessage `json:"-"`
}

func (c *Capabilities) UnmarshalJSON(data []byte) error {
	type alias Capabilities
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtras(data, "core_operations", "optional_operations", "system_flags", "intelligence_flags")
	if err != nil {
		return err
	}
	a.Extra = extra
	*c = Capabilities(a)
	return nil
}

func (c Capabilities) MarshalJSON() ([]byte, error) {
	type alias Capabilities
	return mergeExtras(alias(c), c.Extra)
}

func (c *CoreOperations) UnmarshalJSON(data []byte) error {
	type alias CoreOperations
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtras(data, "add_memory", "retrieve_memory", "delete_memory")
	if err != nil {
		return err
	}
	a.Extra = extra
	*c = CoreOperations(a)
	return nil
}

func (c CoreOperations) MarshalJSON() ([]byte, error) {
	type alias CoreOperations
	return mergeExtras(alias(c), c.Extra)
}

func (o *OptionalOperations) UnmarshalJSON(data []byte) error {
	type alias OptionalOperations
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtras(data, "update_memory", "list_memories", "reset_scope", "get_capabilities")
	if err != nil {
		return err
	}
	a.Extra = extra
	*o = OptionalOperations(a)
	return nil
}

func (o OptionalOperations) MarshalJSON() ([]byte, error) {
	type alias OptionalOperations
	return mergeExtras(alias(o), o.Extra)
}

func (s *SystemFlags) UnmarshalJSON(data []byte) error {
	type alias SystemFlags
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtras(data, "async_indexing", "processing_latency", "convergence_wait_ms")
	if err != nil {
		return err
	}
	a.Extra = extra
	*s = SystemFlags(a)
	return nil
}

func (s SystemFlags) MarshalJSON() ([]byte, error) {
	type alias SystemFlags
	return mergeExtras(alias(s), s.Extra)
}

func (i *IntelligenceFlags) UnmarshalJSON(data []byte) error {
	type alias IntelligenceFlags
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := splitExtras(data, "auto_extraction", "graph_support", "graph_type")
	if err != nil {
		return err
	}
	a.Extra = extra
	*i = IntelligenceFlags(a)
	return nil
}

func (i IntelligenceFlags) MarshalJSON() ([]byte, error) {
	type alias IntelligenceFlags
	return mergeExtras(alias(i), i.Extra)
}
