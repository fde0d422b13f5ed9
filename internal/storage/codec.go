package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sandeepkv93/focusflow/internal/model"
)

// Encode renders state the way every backend stores it: two-space indented
// JSON with a trailing newline and no HTML escaping.
func Encode(state model.TaskState) ([]byte, error) {
	state.Normalize()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a stored record. Blank input decodes to the default state.
func Decode(raw []byte) (model.TaskState, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return model.DefaultTaskState(), nil
	}
	state := model.DefaultTaskState()
	if err := json.Unmarshal(raw, &state); err != nil {
		return model.TaskState{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	state.Normalize()
	if err := state.Validate(); err != nil {
		return model.TaskState{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return state, nil
}
