package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/gentest/internal/snapshot"
)

// EncodeSteps converts step values to canonical JSON for storage.
// A nil slice encodes to an empty, non-nil slice.
func EncodeSteps(values []any) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(values))
	for i, v := range values {
		data, err := snapshot.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode step %d: %w", i, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// DecodeSteps parses stored step values into generic JSON values.
// Numbers decode as json.Number to avoid float64 precision loss.
func DecodeSteps(raw []json.RawMessage) ([]any, error) {
	out := make([]any, 0, len(raw))
	for i, r := range raw {
		var v any
		if err := decodeNumber(r, &v); err != nil {
			return nil, fmt.Errorf("decode step %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
