package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Detail is one label/value row in a vehicle popup. Values are
// pre-formatted display strings, not raw numbers.
type Detail struct {
	Label string
	Value string
}

// Details is the ordered label->value mapping shown in the vehicle
// popup. It marshals to a JSON object that preserves insertion order,
// so the popup rows render in the order the adapter built them.
type Details []Detail

// Get returns the value for a label and whether it is present.
func (d Details) Get(label string) (string, bool) {
	for _, row := range d {
		if row.Label == label {
			return row.Value, true
		}
	}
	return "", false
}

func (d Details) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, row := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := json.Marshal(row.Label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(row.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object token-by-token so document order is
// preserved; map-based decoding would scramble it.
func (d *Details) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("details: expected object, got %v", tok)
	}

	out := Details{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("details: expected string key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = append(out, Detail{Label: label, Value: detailString(raw)})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = out
	return nil
}

// detailString renders a raw JSON value as a display string. Older
// relay payloads carried numeric values (e.g. Direction) unformatted.
func detailString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}
