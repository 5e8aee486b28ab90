package entities

import "time"

// MemoryScope addresses the partition a memory operation acts on. All fields
// are optional; an empty scope means the provider's global namespace.
type MemoryScope struct {
	UserID    string `json:"user_id,omitempty"`
	RunID     string `json:"run_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// Fields returns the scope as a plain map, omitting empty components. Used
// when a scope has to travel through scope-unaware interfaces.
func (s MemoryScope) Fields() map[string]any {
	m := make(map[string]any, 4)
	if s.UserID != "" {
		m["user_id"] = s.UserID
	}
	if s.RunID != "" {
		m["run_id"] = s.RunID
	}
	if s.SessionID != "" {
		m["session_id"] = s.SessionID
	}
	if s.Namespace != "" {
		m["namespace"] = s.Namespace
	}
	return m
}

// MemoryRecord is a stored memory as reported back by an adapter.
type MemoryRecord struct {
	ID        string         `json:"id"`
	Context   string         `json:"context"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp time.Time      `json:"timestamp"`
}

// RetrievalItem is one search result: a record plus its relevance score.
type RetrievalItem struct {
	Record MemoryRecord `json:"record"`
	Score  float64      `json:"score"`
}

// LegacySearchHit is the flat result shape of the legacy search interface.
type LegacySearchHit struct {
	ID      string  `json:"id"`
	Context string  `json:"context"`
	Score   float64 `json:"score"`
}
