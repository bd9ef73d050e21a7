package api

import (
	"context"
	"net/url"

	"github.com/tcriess/openfire-admin/types"
)

// Room types accepted by the chatrooms endpoint.
const (
	RoomTypeAll    = "all"
	RoomTypePublic = "public"
)

// RoomQuery filters the room listing. An empty ServiceName lets the server pick its default service.
type RoomQuery struct {
	ServiceName string
	Type        string
	Search      string
}

func (q RoomQuery) params() url.Values {
	params := url.Values{}
	if q.ServiceName != "" {
		params.Set("servicename", q.ServiceName)
	}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	return params
}

type Chatrooms struct {
	r Requester
}

func NewChatrooms(r Requester) *Chatrooms {
	return &Chatrooms{r: r}
}

// Services lists the multi-user chat services. Servers differ in the wrapper key, both spellings are read.
func (c *Chatrooms) Services(ctx context.Context) ([]types.ChatService, error) {
	body, err := c.r.Get(ctx, "chatservices", nil)
	if err != nil {
		return nil, err
	}
	services := make([]types.ChatService, 0)
	if err := decodeList(body, &services, "chatServices", "chatService"); err != nil {
		return nil, err
	}
	return services, nil
}

// List returns the rooms matching q. The returned rooms carry no service name and no occupants.
func (c *Chatrooms) List(ctx context.Context, q RoomQuery) ([]types.ChatRoom, error) {
	body, err := c.r.Get(ctx, "chatrooms", q.params())
	if err != nil {
		return nil, err
	}
	rooms := make([]types.ChatRoom, 0)
	if err := decodeList(body, &rooms, "chatRooms"); err != nil {
		return nil, err
	}
	for i := range rooms {
		normalizeRoom(&rooms[i])
	}
	return rooms, nil
}

// Occupants returns the current participants of a room. The servicename parameter is only sent for
// services other than the default one.
func (c *Chatrooms) Occupants(ctx context.Context, roomName, serviceName string) ([]types.Occupant, error) {
	var params url.Values
	if serviceName != "" && serviceName != types.DefaultServiceName {
		params = url.Values{"servicename": {serviceName}}
	}
	body, err := c.r.Get(ctx, "chatrooms/"+segment(roomName)+"/occupants", params)
	if err != nil {
		return nil, err
	}
	occupants := make([]types.Occupant, 0)
	if err := decodeList(body, &occupants, "occupants"); err != nil {
		return nil, err
	}
	return occupants, nil
}

func normalizeRoom(room *types.ChatRoom) {
	if room.Owners == nil {
		room.Owners = types.StringList{}
	}
	if room.Admins == nil {
		room.Admins = types.StringList{}
	}
	if room.Members == nil {
		room.Members = types.StringList{}
	}
	room.Occupants = make([]types.Occupant, 0)
}
