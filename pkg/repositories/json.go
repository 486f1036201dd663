package repositories

import (
	"encoding/json"
	"fmt"
)

// jsonbParam marshals v for a jsonb column. nil slices are stored as [].
func jsonbParam(v any) ([]byte, error) {
	if s, ok := v.([]string); ok && s == nil {
		return []byte("[]"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	return data, nil
}

func scanStrings(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
