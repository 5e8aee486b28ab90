package entities

import "encoding/json"

// splitExtras unmarshals data into a raw key map and strips the known keys,
// returning whatever the document carried beyond the typed fields. A nil map
// means the document had no unknown keys.
func splitExtras(data []byte, known ...string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// mergeExtras marshals v and merges the preserved unknown keys back into the
// resulting object. Typed fields win on key collision.
func mergeExtras(v any, extra map[string]json.RawMessage) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}
	merged := make(map[string]json.RawMessage, len(extra)+8)
	for k, raw := range extra {
		merged[k] = raw
	}
	var typed map[string]json.RawMessage
	if err := json.Unmarshal(base, &typed); err != nil {
		return nil, err
	}
	for k, raw := range typed {
		merged[k] = raw
	}
	return json.Marshal(merged)
}
