// Package legacy holds the request and response shapes of the v1 contract.
package legacy

import (
	"bytes"
	"fmt"
)

// Flag is a v1 boolean. Clients send 0/1 or true/false; it is echoed as 0/1.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "1", "true":
		*f = true
	case "0", "false", "null":
		*f = false
	default:
		return fmt.Errorf("invalid flag value %s: want 0, 1, true or false", b)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// Bool returns the flag as a plain bool.
func (f Flag) Bool() bool { return bool(f) }

// BoolPtr converts an optional flag to an optional bool.
func BoolPtr(f *Flag) *bool {
	if f == nil {
		return nil
	}
	b := f.Bool()
	return &b
}
