package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Identifier is an opaque ID that the API may send either as a JSON number
// or a JSON string. Numeric IDs are encoded back as numbers.
type Identifier string

func (id Identifier) String() string { return string(id) }

// IsZero reports whether the identifier is missing.
func (id Identifier) IsZero() bool { return id == "" }

func (id Identifier) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(string(id), 64); err == nil && json.Valid([]byte(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *Identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = Identifier(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("identifier: %w", err)
		}
		*id = Identifier(n.String())
		return nil
	}
}
