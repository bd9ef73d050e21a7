package types

// RosterItem is one contact on a user's roster. SubscriptionType uses the server's numbering: -1 remove,
// 0 none, 1 to, 2 from, 3 both.
type RosterItem struct {
	JID              string     `json:"jid"`
	Nickname         *string    `json:"nickname,omitempty"`
	SubscriptionType int        `json:"subscriptionType"`
	Groups           StringList `json:"groups"`
}

// Roster is the contact list of one user. Username is filled in from the request.
type Roster struct {
	Username string       `json:"username"`
	Items    []RosterItem `json:"rosterItem"`
}
