package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Suggestions is a key to text map. The analysis service does not always send
// string values, so anything else is flattened to its text form on decode.
type Suggestions map[string]string

// UnmarshalJSON decodes an object whose values may be of any JSON type
func (s *Suggestions) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode suggestions: %w", err)
	}

	out := make(Suggestions, len(raw))
	for key, value := range raw {
		out[key] = flatten(value)
	}
	*s = out
	return nil
}

func flatten(value json.RawMessage) string {
	var str string
	if err := json.Unmarshal(value, &str); err == nil {
		return str
	}

	var num float64
	if err := json.Unmarshal(value, &num); err == nil {
		return strconv.FormatFloat(num, 'f', -1, 64)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, value); err != nil {
		return string(value)
	}
	if compact.String() == "null" {
		return ""
	}
	return compact.String()
}
