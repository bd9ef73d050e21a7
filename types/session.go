package types

import (
	"strings"

	"mellium.im/xmpp/jid"
)

// LocalNode is the node value OpenFire reports for sessions connected to the answering cluster node.
const LocalNode = "Local"

// Session is a live client session. CreationDate and LastActionDate are epoch milliseconds.
type Session struct {
	SessionID       string  `json:"sessionId"` // full JID including the resource
	Username        string  `json:"username"`
	Resource        *string `json:"resource,omitempty"`
	Node            *string `json:"node,omitempty"`
	SessionStatus   *string `json:"sessionStatus,omitempty"`
	PresenceStatus  *string `json:"presenceStatus,omitempty"`
	PresenceMessage *string `json:"presenceMessage,omitempty"`
	Priority        *int    `json:"priority,omitempty"`
	HostAddress     *string `json:"hostAddress,omitempty"`
	HostName        *string `json:"hostName,omitempty"`
	CreationDate    *int64  `json:"creationDate,omitempty"`
	LastActionDate  *int64  `json:"lastActionDate,omitempty"`
	Secure          *bool   `json:"secure,omitempty"`
	JID             string  `json:"jid,omitempty"` // bare JID, derived from SessionID
}

// IsRemote reports whether the session is attached to another cluster node.
func (s *Session) IsRemote() bool {
	return s.Node != nil && *s.Node != "" && *s.Node != LocalNode
}

// BareJID truncates a full JID at the first "/". Valid JIDs go through the JID parser so the result is in
// canonical form, anything else is cut as a plain string.
func BareJID(full string) string {
	if full == "" {
		return ""
	}
	if j, err := jid.Parse(full); err == nil {
		return j.Bare().String()
	}
	if i := strings.Index(full, "/"); i >= 0 {
		return full[:i]
	}
	return full
}

// UserJID builds the bare JID of a local user. Usernames that are not valid localparts are joined as is.
func UserJID(username, domain string) string {
	if j, err := jid.New(username, domain, ""); err == nil {
		return j.String()
	}
	return username + "@" + domain
}
