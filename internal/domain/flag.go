package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Flag is a capability bit that the API encodes as the string "true" or "false".
type Flag bool

// MarshalJSON writes the flag as a quoted boolean.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte(`"true"`), nil
	}
	return []byte(`"false"`), nil
}

// UnmarshalJSON accepts quoted booleans in any case, bare booleans, null and "".
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("capability flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		*f = true
	case "false", "":
		*f = false
	default:
		return fmt.Errorf("capability flag: unexpected value %q", s)
	}
	return nil
}

// Capabilities is the set of per-assignment permissions.
// Each flag is independent; there is no role hierarchy.
type Capabilities struct {
	View    bool
	Comment bool
	Edit    bool
}

// DefaultCapabilities grants everything, matching the assignment form default.
func DefaultCapabilities() Capabilities {
	return Capabilities{View: true, Comment: true, Edit: true}
}

// String renders the flags as "vce" with dashes for missing capabilities.
func (c Capabilities) String() string {
	b := []byte("---")
	if c.View {
		b[0] = 'v'
	}
	if c.Comment {
		b[1] = 'c'
	}
	if c.Edit {
		b[2] = 'e'
	}
	return string(b)
}
