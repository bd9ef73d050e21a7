// Package filter evaluates the boolean --filter expressions of the list commands against report records.
package filter

import (
	"fmt"
	"time"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/tcriess/openfire-admin/globals"
	"github.com/tcriess/openfire-admin/types"
)

// Filter is a compiled expression. A nil *Filter matches every record.
type Filter struct {
	source string
	prog   *vm.Program
}

// Compile compiles src against Env. An empty src returns a nil Filter.
func Compile(src string) (*Filter, error) {
	if src == "" {
		return nil, nil
	}
	prog, err := expr.Compile(src, expr.Env(Env{}))
	if err != nil {
		return nil, fmt.Errorf("could not compile filter: %w", err)
	}
	return &Filter{source: src, prog: prog}, nil
}

func newEnv() Env {
	return Env{
		Now:           time.Now().Unix(),
		AsInt:         AsInt,
		AsFloat:       AsFloat,
		AsStringSlice: AsStringSlice,
	}
}

// Match runs the filter. Expressions that do not evaluate to a bool are an error.
func (f *Filter) Match(env Env) (bool, error) {
	if f == nil {
		return true, nil
	}
	res, err := expr.Run(f.prog, env)
	if err != nil {
		return false, fmt.Errorf("could not run filter %q: %w", f.source, err)
	}
	bRes, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, not bool", f.source, res)
	}
	globals.AppLogger.Trace("filter result", "filter", f.source, "res", bRes)
	return bRes, nil
}

func UserEnv(u types.UserReport) Env {
	env := newEnv()
	props := make(map[string]string, len(u.Properties))
	for _, p := range u.Properties {
		props[p.Key] = p.Value
	}
	env.User = User{
		Username:   u.Username,
		Name:       deref(u.Name),
		Email:      deref(u.Email),
		Properties: props,
		LoggedOn:   u.LoggedOn,
		LocalUser:  u.LocalUser,
		Rooms:      []string(u.Rooms),
	}
	if u.UnreadMessages != nil {
		env.User.UnreadMessages = int64(*u.UnreadMessages)
	}
	return env
}

func RoomEnv(r types.ChatRoom) Env {
	env := newEnv()
	occupants := make([]string, 0, len(r.Occupants))
	for _, o := range r.Occupants {
		occupants = append(occupants, o.JID)
	}
	env.Room = Room{
		ServiceName: r.ServiceName,
		RoomName:    r.RoomName,
		NaturalName: deref(r.NaturalName),
		Subject:     deref(r.Subject),
		Persistent:  r.Persistent,
		PublicRoom:  r.PublicRoom,
		MembersOnly: r.MembersOnly,
		Moderated:   r.Moderated,
		Owners:      []string(r.Owners),
		Admins:      []string(r.Admins),
		Members:     []string(r.Members),
		Occupants:   occupants,
	}
	return env
}

func SessionEnv(s types.Session) Env {
	env := newEnv()
	env.Session = Session{
		SessionID:      s.SessionID,
		Username:       s.Username,
		JID:            s.JID,
		Resource:       deref(s.Resource),
		Node:           deref(s.Node),
		Remote:         s.IsRemote(),
		PresenceStatus: deref(s.PresenceStatus),
		HostAddress:    deref(s.HostAddress),
	}
	if s.Priority != nil {
		env.Session.Priority = int64(*s.Priority)
	}
	if s.Secure != nil {
		env.Session.Secure = *s.Secure
	}
	if s.CreationDate != nil {
		env.Session.CreationDate = *s.CreationDate
	}
	if s.LastActionDate != nil {
		env.Session.LastActionDate = *s.LastActionDate
	}
	return env
}

func GroupEnv(g types.Group) Env {
	env := newEnv()
	env.Group = Group{
		Name:        g.Name,
		Description: deref(g.Description),
		Members:     []string(g.Members),
		Admins:      []string(g.Admins),
	}
	if g.Shared != nil {
		env.Group.Shared = *g.Shared
	}
	return env
}

func LogEnv(l types.SecurityAuditLogEntry) Env {
	env := newEnv()
	env.Log = Log{
		LogID:     l.LogID,
		Username:  l.Username,
		Timestamp: l.Timestamp,
		Summary:   l.Summary,
		Node:      l.Node,
		Details:   l.Details,
	}
	return env
}
