package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StringList is a list of JIDs or names as returned by the REST API. It always serializes as a JSON array,
// never as null, and keeps the server's order (duplicates included).
type StringList []string

// MarshalJSON renders a nil list as []
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// UnmarshalJSON accepts an array of strings, a single string, null, or an object wrapping the list under
// a single key (f.e. {"owner": ["a@b"]}, which some OpenFire versions emit).
func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = StringList{}
		return nil
	}
	switch b[0] {
	case '[':
		t := make([]string, 0)
		if err := json.Unmarshal(b, &t); err != nil {
			return err
		}
		*l = StringList(t)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case '{':
		wrapped := map[string]StringList{}
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return err
		}
		if len(wrapped) > 1 {
			return fmt.Errorf("ambiguous list wrapper with %d keys", len(wrapped))
		}
		*l = StringList{}
		for _, inner := range wrapped {
			*l = inner
		}
		return nil
	}
	return fmt.Errorf("cannot decode %s into a string list", string(b))
}
