package types

// DefaultServiceName tags rooms that were listed without a service filter because the server did not
// enumerate any chat service.
const DefaultServiceName = "default"

// ChatService is a multi-user chat service (f.e. "conference").
type ChatService struct {
	ServiceName string  `json:"serviceName"`
	Description *string `json:"description,omitempty"`
	Hidden      *bool   `json:"hidden,omitempty"`
}

// ChatRoom is a multi-user chat room as listed by the chatrooms endpoint. ServiceName is not part of the
// server payload, it is filled in by the report that listed the room.
type ChatRoom struct {
	ServiceName               string     `json:"serviceName,omitempty"`
	RoomName                  string     `json:"roomName"`
	NaturalName               *string    `json:"naturalName,omitempty"`
	Description               *string    `json:"description,omitempty"`
	Subject                   *string    `json:"subject,omitempty"`
	CreationDate              *string    `json:"creationDate,omitempty"`
	ModificationDate          *string    `json:"modificationDate,omitempty"`
	MaxUsers                  *int       `json:"maxUsers,omitempty"`
	Persistent                bool       `json:"persistent"`
	PublicRoom                bool       `json:"publicRoom"`
	RegistrationEnabled       *bool      `json:"registrationEnabled,omitempty"`
	CanAnyoneDiscoverJID      *bool      `json:"canAnyoneDiscoverJID,omitempty"`
	CanOccupantsChangeSubject *bool      `json:"canOccupantsChangeSubject,omitempty"`
	CanOccupantsInvite        *bool      `json:"canOccupantsInvite,omitempty"`
	CanChangeNickname         *bool      `json:"canChangeNickname,omitempty"`
	LogEnabled                *bool      `json:"logEnabled,omitempty"`
	LoginRestrictedToNickname *bool      `json:"loginRestrictedToNickname,omitempty"`
	MembersOnly               bool       `json:"membersOnly"`
	Moderated                 bool       `json:"moderated"`
	AllowPM                   *string    `json:"allowPM,omitempty"`
	Owners                    StringList `json:"owners"`
	Admins                    StringList `json:"admins"`
	Members                   StringList `json:"members"`
	Occupants                 []Occupant `json:"occupants"`
}

// Occupant is a participant currently present in a room. The JID is the occupant (room) JID, its resource
// part is the nickname.
type Occupant struct {
	JID         string  `json:"jid"`
	UserAddress *string `json:"userAddress,omitempty"`
	Role        string  `json:"role"`
	Affiliation string  `json:"affiliation"`
}

// RoomOccupants is the fallback record for an occupant lookup of a room that is not listed by the server.
type RoomOccupants struct {
	RoomName  string     `json:"roomName"`
	Occupants []Occupant `json:"occupants"`
}
