package api

import (
	"context"

	"github.com/tidwall/gjson"
)

type MessageArchive struct {
	r Requester
}

func NewMessageArchive(r Requester) *MessageArchive {
	return &MessageArchive{r: r}
}

// UnreadCount returns the number of messages not yet delivered to the bare JID. A body without a JSON
// "count" counts as 0.
func (m *MessageArchive) UnreadCount(ctx context.Context, bareJID string) (int, error) {
	body, err := m.r.Get(ctx, "archive/messages/unread/"+segment(bareJID), nil)
	if err != nil {
		return 0, err
	}
	if !gjson.ValidBytes(body) {
		return 0, nil
	}
	return int(gjson.GetBytes(body, "count").Int()), nil
}
