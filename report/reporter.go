// Package report composes the multi-call reports: chatrooms with their occupants, single-room occupant
// lookups, users enriched with presence information and the start of the next security log poll.
package report

import (
	"github.com/hashicorp/go-hclog"
	"github.com/tcriess/openfire-admin/api"
	"github.com/tcriess/openfire-admin/globals"
)

// Reporter issues its requests one after the other through a single client.
type Reporter struct {
	chatrooms *api.Chatrooms
	sessions  *api.Sessions
	users     *api.Users
	archive   *api.MessageArchive
	logger    hclog.Logger
}

func NewReporter(r api.Requester) *Reporter {
	return &Reporter{
		chatrooms: api.NewChatrooms(r),
		sessions:  api.NewSessions(r),
		users:     api.NewUsers(r),
		archive:   api.NewMessageArchive(r),
		logger:    globals.AppLogger.Named("report"),
	}
}

func (r *Reporter) warn(warnings []Warning, subject string, err error) []Warning {
	r.logger.Warn("partial result", "subject", subject, "error", err)
	return append(warnings, Warning{Subject: subject, Err: err})
}
