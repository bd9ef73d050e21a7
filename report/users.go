package report

import (
	"context"
	"strings"

	"github.com/tcriess/openfire-admin/api"
	"github.com/tcriess/openfire-admin/types"
)

// UserQuery selects the users of a user report. With Unread every user is also annotated with the number
// of undelivered archived messages of username@Domain.
type UserQuery struct {
	api.UserQuery
	Unread bool
	Domain string
}

// presence is collected once per report and shared by all annotated users.
type presence struct {
	loggedOn map[string]bool
	remote   map[string]bool
	rooms    map[string][]string
}

func (r *Reporter) presence(ctx context.Context) (*presence, []Warning) {
	p := &presence{
		loggedOn: make(map[string]bool),
		remote:   make(map[string]bool),
		rooms:    make(map[string][]string),
	}
	var warnings []Warning

	sessions, err := r.sessions.List(ctx)
	if err != nil {
		warnings = r.warn(warnings, "sessions", err)
	}
	for i := range sessions {
		p.loggedOn[sessions[i].Username] = true
		if sessions[i].IsRemote() {
			p.remote[sessions[i].Username] = true
		}
	}

	rooms, roomWarnings, err := r.Chatrooms(ctx, ChatroomQuery{})
	warnings = append(warnings, roomWarnings...)
	if err != nil {
		warnings = r.warn(warnings, "chatrooms", err)
	}
	for _, room := range rooms {
		for _, o := range room.Occupants {
			i := strings.LastIndex(o.JID, "/")
			if i < 0 {
				continue
			}
			username := o.JID[i+1:]
			p.rooms[username] = append(p.rooms[username], room.RoomName)
		}
	}
	return p, warnings
}

func (p *presence) annotate(u types.User) types.UserReport {
	rooms := types.StringList{}
	if names, ok := p.rooms[u.Username]; ok {
		rooms = append(rooms, names...)
	}
	return types.UserReport{
		User:      u,
		LoggedOn:  p.loggedOn[u.Username],
		LocalUser: !p.remote[u.Username],
		Rooms:     rooms,
	}
}

func (r *Reporter) unread(ctx context.Context, report *types.UserReport, domain string, warnings []Warning) []Warning {
	count, err := r.archive.UnreadCount(ctx, types.UserJID(report.Username, domain))
	if err != nil {
		warnings = r.warn(warnings, "unread messages of "+report.Username, err)
		count = 0
	}
	report.UnreadMessages = &count
	return warnings
}

// Users lists the users matching q and annotates them with presence information. Session and chatroom
// failures degrade to empty annotations with a warning, a failing user listing is an error.
func (r *Reporter) Users(ctx context.Context, q UserQuery) ([]types.UserReport, []Warning, error) {
	p, warnings := r.presence(ctx)
	users, err := r.users.List(ctx, q.UserQuery)
	if err != nil {
		return nil, nil, err
	}
	reports := make([]types.UserReport, 0, len(users))
	for _, u := range users {
		report := p.annotate(u)
		if q.Unread {
			warnings = r.unread(ctx, &report, q.Domain, warnings)
		}
		reports = append(reports, report)
	}
	return reports, warnings, nil
}

// User reports a single user, see Users.
func (r *Reporter) User(ctx context.Context, username string, unread bool, domain string) (*types.UserReport, []Warning, error) {
	p, warnings := r.presence(ctx)
	u, err := r.users.Get(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	report := p.annotate(*u)
	if unread {
		warnings = r.unread(ctx, &report, domain, warnings)
	}
	return &report, warnings, nil
}
