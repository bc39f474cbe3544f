package domain

import (
	"encoding/json"
	"reflect"
	"sort"
)

// StateDiff represents the changes between two state trees.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// Changed contains only changed, added or deleted top-level keys.
	// For deletions, the key is present with a nil value.
	// Clients should merge these updates into their local state.
	Changed map[string]any `json:"changed"`
}

// Keys returns the changed top-level keys in sorted order.
func (d *StateDiff) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.Changed))
	for k := range d.Changed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d == nil || len(d.Changed) == 0
}

// Diff calculates the difference between two states by comparing their JSON
// top-level keys. Non-object states (e.g. a bare counter) are reported under
// the key "value".
// If oldState is nil, the diff represents the entire newState (initial load).
// Returns nil when nothing changed.
func Diff(oldState, newState any) *StateDiff {
	newTree, err := toTree(newState)
	if err != nil || newTree == nil {
		return nil
	}

	var oldTree map[string]any
	if oldState != nil {
		if oldTree, err = toTree(oldState); err != nil {
			return nil
		}
	}

	delta := diffTree(oldTree, newTree)
	if len(delta) == 0 {
		return nil
	}
	return &StateDiff{Changed: delta}
}

func diffTree(old, new map[string]any) map[string]any {
	delta := make(map[string]any)

	// If old is nil, everything in new is a delta
	if old == nil {
		for k, v := range new {
			delta[k] = v
		}
		return delta
	}

	// Check for Added or Modified
	for k, newVal := range new {
		oldVal, exists := old[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}

	// Check for Deletions
	for k := range old {
		if _, exists := new[k]; !exists {
			delta[k] = nil
		}
	}

	return delta
}

func toTree(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	if tree, ok := generic.(map[string]any); ok {
		return tree, nil
	}
	return map[string]any{"value": generic}, nil
}
