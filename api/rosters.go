package api

import (
	"context"

	"github.com/tcriess/openfire-admin/types"
)

type Rosters struct {
	r Requester
}

func NewRosters(r Requester) *Rosters {
	return &Rosters{r: r}
}

// Get returns the roster of username. An empty roster has no items, not a nil list.
func (r *Rosters) Get(ctx context.Context, username string) (*types.Roster, error) {
	body, err := r.r.Get(ctx, "users/"+segment(username)+"/roster", nil)
	if err != nil {
		return nil, err
	}
	items := make([]types.RosterItem, 0)
	if err := decodeList(body, &items, "rosterItem"); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Groups == nil {
			items[i].Groups = types.StringList{}
		}
	}
	return &types.Roster{Username: username, Items: items}, nil
}
