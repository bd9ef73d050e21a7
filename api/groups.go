package api

import (
	"context"
	"encoding/json"

	"github.com/tcriess/openfire-admin/globals"
	"github.com/tcriess/openfire-admin/types"
)

type Groups struct {
	r Requester
}

func NewGroups(r Requester) *Groups {
	return &Groups{r: r}
}

// List returns the groups as listed, members and admins are only present if the server includes them.
func (g *Groups) List(ctx context.Context) ([]types.Group, error) {
	body, err := g.r.Get(ctx, "groups", nil)
	if err != nil {
		return nil, err
	}
	groups := make([]types.Group, 0)
	if err := decodeList(body, &groups, "groups"); err != nil {
		return nil, err
	}
	for i := range groups {
		normalizeGroup(&groups[i])
	}
	return groups, nil
}

// ListDetailed fetches every listed group's detail record to get members and admins. A group whose detail
// cannot be fetched keeps its list entry.
func (g *Groups) ListDetailed(ctx context.Context) ([]types.Group, error) {
	groups, err := g.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		detailed, err := g.Get(ctx, groups[i].Name)
		if err != nil {
			globals.AppLogger.Warn("could not fetch group details, using list entry", "group", groups[i].Name, "error", err)
			continue
		}
		groups[i] = *detailed
	}
	return groups, nil
}

func (g *Groups) Get(ctx context.Context, name string) (*types.Group, error) {
	body, err := g.r.Get(ctx, "groups/"+segment(name), nil)
	if err != nil {
		return nil, err
	}
	group := types.Group{}
	if err := decodeObject(body, &group); err != nil {
		return nil, err
	}
	normalizeGroup(&group)
	return &group, nil
}

// GroupWriter creates, updates and deletes groups.
type GroupWriter struct {
	*Groups
	rw ReadWriter
}

func NewGroupWriter(rw ReadWriter) *GroupWriter {
	return &GroupWriter{Groups: NewGroups(rw), rw: rw}
}

func (g *GroupWriter) Create(ctx context.Context, group types.Group) error {
	body, err := json.Marshal(group)
	if err != nil {
		return err
	}
	_, err = g.rw.Post(ctx, "groups", body, nil)
	return err
}

// Update overwrites the group stored under name.
func (g *GroupWriter) Update(ctx context.Context, name string, group types.Group) error {
	body, err := json.Marshal(group)
	if err != nil {
		return err
	}
	_, err = g.rw.Put(ctx, "groups/"+segment(name), body, nil)
	return err
}

func (g *GroupWriter) Delete(ctx context.Context, name string) error {
	return g.rw.Delete(ctx, "groups/"+segment(name))
}

func normalizeGroup(group *types.Group) {
	if group.Members == nil {
		group.Members = types.StringList{}
	}
	if group.Admins == nil {
		group.Admins = types.StringList{}
	}
}
