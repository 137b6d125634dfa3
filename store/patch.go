package store

import (
	"encoding/json"
	"fmt"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Patch is a partial update keyed by JSON field name.
type Patch map[string]any

// StatusValue renders a boolean status as ACTIVE or INACTIVE.
func StatusValue(active bool) string {
	if active {
		return StatusActive
	}
	return StatusInactive
}

// Coerce returns a copy of the patch with a boolean status converted to its
// wire value.
func (p Patch) Coerce() Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	if b, ok := out["status"].(bool); ok {
		out["status"] = StatusValue(b)
	}
	return out
}

// applyPatch returns item with the patch fields overwritten.
func applyPatch[T any](item T, patch Patch) (T, error) {
	var zero T
	raw, err := json.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("encode item: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, fmt.Errorf("decode item fields: %w", err)
	}
	for k, v := range patch.Coerce() {
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return zero, fmt.Errorf("encode patched item: %w", err)
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, fmt.Errorf("decode patched item: %w", err)
	}
	return out, nil
}
