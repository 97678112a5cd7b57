package models

import (
	"bytes"
	"encoding/json"
)

// Value holds one raw field of an upstream record.
//
// It decodes from any JSON (string, number, bool, null, list, object) without error and remembers
// whether the key was present at all, so that "missing" and "null" can default differently.
type Value struct {
	raw     any
	present bool
}

// V wraps a Go value as a present [Value].
func V(raw any) Value {
	return Value{raw: raw, present: true}
}

// Null returns a present [Value] holding JSON null.
func Null() Value {
	return Value{present: true}
}

// Raw returns the decoded value. Numbers decoded from JSON are [json.Number].
func (v Value) Raw() any { return v.raw }

// Present reports whether the field appeared in the source record, even as null.
func (v Value) Present() bool { return v.present }

// IsZero reports whether the field is absent. Used by encoders honoring omitzero.
func (v Value) IsZero() bool { return !v.present }

// UnmarshalJSON implements [json.Unmarshaler]. It never fails.
func (v *Value) UnmarshalJSON(data []byte) error {
	v.present = true
	v.raw = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil
	}
	v.raw = raw
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}
