package api

import (
	"context"
	"net/url"

	"github.com/tcriess/openfire-admin/types"
)

// UserQuery filters the user listing. PropertyValue is only sent together with PropertyKey.
type UserQuery struct {
	Search        string // wildcard search on the username
	PropertyKey   string
	PropertyValue string
}

func (q UserQuery) params() url.Values {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.PropertyKey != "" {
		params.Set("propertyKey", q.PropertyKey)
		if q.PropertyValue != "" {
			params.Set("propertyValue", q.PropertyValue)
		}
	}
	return params
}

type Users struct {
	r Requester
}

func NewUsers(r Requester) *Users {
	return &Users{r: r}
}

func (u *Users) List(ctx context.Context, q UserQuery) ([]types.User, error) {
	body, err := u.r.Get(ctx, "users", q.params())
	if err != nil {
		return nil, err
	}
	users := make([]types.User, 0)
	if err := decodeList(body, &users, "users"); err != nil {
		return nil, err
	}
	for i := range users {
		normalizeUser(&users[i])
	}
	return users, nil
}

func (u *Users) Get(ctx context.Context, username string) (*types.User, error) {
	body, err := u.r.Get(ctx, "users/"+segment(username), nil)
	if err != nil {
		return nil, err
	}
	user := types.User{}
	if err := decodeObject(body, &user); err != nil {
		return nil, err
	}
	normalizeUser(&user)
	return &user, nil
}

func normalizeUser(user *types.User) {
	if user.Properties == nil {
		user.Properties = types.UserProperties{}
	}
}
