package api

import (
	"context"

	"github.com/tcriess/openfire-admin/types"
)

type Sessions struct {
	r Requester
}

func NewSessions(r Requester) *Sessions {
	return &Sessions{r: r}
}

// List returns all live client sessions.
func (s *Sessions) List(ctx context.Context) ([]types.Session, error) {
	return s.fetch(ctx, "sessions")
}

// ForUser returns the live client sessions of one user.
func (s *Sessions) ForUser(ctx context.Context, username string) ([]types.Session, error) {
	return s.fetch(ctx, "sessions/"+segment(username))
}

func (s *Sessions) fetch(ctx context.Context, path string) ([]types.Session, error) {
	body, err := s.r.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	sessions := make([]types.Session, 0)
	if err := decodeList(body, &sessions, "sessions"); err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].JID = types.BareJID(sessions[i].SessionID)
	}
	return sessions, nil
}
