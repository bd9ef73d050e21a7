package types

import (
	"bytes"
	"encoding/json"
)

type User struct {
	Username   string         `json:"username"` // unique
	Name       *string        `json:"name,omitempty"`
	Email      *string        `json:"email,omitempty"`
	Properties UserProperties `json:"properties"`
}

type UserProperty struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UserProperties always serializes as an array. Decoding accepts the plain array form as well as the
// {"property": [...]} / {"property": {...}} wrapping.
type UserProperties []UserProperty

func (p UserProperties) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]UserProperty(p))
}

func (p *UserProperties) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = UserProperties{}
		return nil
	}
	if b[0] == '[' {
		t := make([]UserProperty, 0)
		err := json.Unmarshal(b, &t)
		*p = UserProperties(t)
		return err
	}
	wrapped := struct {
		Property json.RawMessage `json:"property"`
	}{}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	inner := bytes.TrimSpace(wrapped.Property)
	if len(inner) > 0 && inner[0] == '{' {
		single := UserProperty{}
		if err := json.Unmarshal(inner, &single); err != nil {
			return err
		}
		*p = UserProperties{single}
		return nil
	}
	if len(inner) == 0 {
		*p = UserProperties{}
		return nil
	}
	return p.UnmarshalJSON(inner)
}

// UserReport is a user enriched with presence information collected in the same run. None of the
// additional fields are stored on the server.
type UserReport struct {
	User
	LoggedOn       bool       `json:"loggedOn"`
	LocalUser      bool       `json:"localUser"`
	Rooms          StringList `json:"rooms"`
	UnreadMessages *int       `json:"unreadMessages,omitempty"`
}
