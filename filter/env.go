package filter

/*
Here the Env used in the --filter expressions is defined. Every record kind has its own sub-struct, an
expression only sees the one of the record it is evaluated for (the others are zero).
Renaming a field breaks existing filters in scripts, so only add to these structs.
*/

type User struct {
	Username       string
	Name           string
	Email          string
	Properties     map[string]string
	LoggedOn       bool
	LocalUser      bool
	Rooms          []string
	UnreadMessages int64
}

type Room struct {
	ServiceName string
	RoomName    string
	NaturalName string
	Subject     string
	Persistent  bool
	PublicRoom  bool
	MembersOnly bool
	Moderated   bool
	Owners      []string
	Admins      []string
	Members     []string
	Occupants   []string // occupant JIDs
}

type Session struct {
	SessionID      string
	Username       string
	JID            string
	Resource       string
	Node           string
	Remote         bool
	PresenceStatus string
	Priority       int64
	HostAddress    string
	Secure         bool
	CreationDate   int64 // epoch ms
	LastActionDate int64 // epoch ms
}

type Group struct {
	Name        string
	Description string
	Shared      bool
	Members     []string
	Admins      []string
}

type Log struct {
	LogID     int64
	Username  string
	Timestamp int64 // epoch s
	Summary   string
	Node      string
	Details   string
}

type Env struct {
	User    User
	Room    Room
	Session Session
	Group   Group
	Log     Log
	Now     int64 // epoch s at evaluation time

	AsInt         func(string) int64
	AsFloat       func(string) float64
	AsStringSlice func(string) []string
}
