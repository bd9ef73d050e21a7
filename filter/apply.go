package filter

import (
	"github.com/tcriess/openfire-admin/types"
)

func (f *Filter) Users(in []types.UserReport) ([]types.UserReport, error) {
	if f == nil {
		return in, nil
	}
	out := make([]types.UserReport, 0, len(in))
	for _, u := range in {
		ok, err := f.Match(UserEnv(u))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *Filter) Rooms(in []types.ChatRoom) ([]types.ChatRoom, error) {
	if f == nil {
		return in, nil
	}
	out := make([]types.ChatRoom, 0, len(in))
	for _, r := range in {
		ok, err := f.Match(RoomEnv(r))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *Filter) Sessions(in []types.Session) ([]types.Session, error) {
	if f == nil {
		return in, nil
	}
	out := make([]types.Session, 0, len(in))
	for _, s := range in {
		ok, err := f.Match(SessionEnv(s))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *Filter) Groups(in []types.Group) ([]types.Group, error) {
	if f == nil {
		return in, nil
	}
	out := make([]types.Group, 0, len(in))
	for _, g := range in {
		ok, err := f.Match(GroupEnv(g))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// Logs keeps the {"logs": [...]} shape, an empty result still has an empty list.
func (f *Filter) Logs(in *types.SecurityAuditLogs) (*types.SecurityAuditLogs, error) {
	if f == nil || in == nil {
		return in, nil
	}
	out := &types.SecurityAuditLogs{Logs: make([]types.SecurityAuditLogEntry, 0, len(in.Logs))}
	for _, l := range in.Logs {
		ok, err := f.Match(LogEnv(l))
		if err != nil {
			return nil, err
		}
		if ok {
			out.Logs = append(out.Logs, l)
		}
	}
	return out, nil
}
