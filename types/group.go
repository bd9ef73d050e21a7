package types

type Group struct {
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Shared      *bool      `json:"shared,omitempty"`
	Members     StringList `json:"members"`
	Admins      StringList `json:"admins"`
}
