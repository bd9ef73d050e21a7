package report

import (
	"context"
	"fmt"

	"github.com/tcriess/openfire-admin/api"
	"github.com/tcriess/openfire-admin/types"
)

// ChatroomQuery selects the rooms of a chatroom report. Without ServiceName all discovered services are
// listed.
type ChatroomQuery struct {
	ServiceName string
	Type        string
	Search      string
}

// Chatrooms lists the rooms of the selected services, each tagged with its service and carrying its
// occupants. A room whose occupants cannot be fetched is kept with no occupants and a warning. Listing and
// discovery failures are returned as errors.
func (r *Reporter) Chatrooms(ctx context.Context, q ChatroomQuery) ([]types.ChatRoom, []Warning, error) {
	rooms := make([]types.ChatRoom, 0)
	var warnings []Warning

	services := make([]string, 0)
	if q.ServiceName != "" {
		services = append(services, q.ServiceName)
	} else {
		discovered, err := r.chatrooms.Services(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("could not discover chat services: %w", err)
		}
		for _, s := range discovered {
			services = append(services, s.ServiceName)
		}
	}

	if len(services) == 0 {
		// no service known: let the server pick its default one
		listed, err := r.chatrooms.List(ctx, api.RoomQuery{Type: q.Type, Search: q.Search})
		if err != nil {
			return nil, nil, fmt.Errorf("could not list chatrooms: %w", err)
		}
		for _, room := range listed {
			room.ServiceName = types.DefaultServiceName
			rooms = append(rooms, room)
		}
	} else {
		for _, service := range services {
			listed, err := r.chatrooms.List(ctx, api.RoomQuery{ServiceName: service, Type: q.Type, Search: q.Search})
			if err != nil {
				return nil, nil, fmt.Errorf("could not list chatrooms of service %s: %w", service, err)
			}
			for _, room := range listed {
				room.ServiceName = service
				rooms = append(rooms, room)
			}
		}
	}

	for i := range rooms {
		occupants, err := r.chatrooms.Occupants(ctx, rooms[i].RoomName, rooms[i].ServiceName)
		if err != nil {
			warnings = r.warn(warnings, "occupants of room "+rooms[i].RoomName, err)
			rooms[i].Occupants = make([]types.Occupant, 0)
			continue
		}
		rooms[i].Occupants = occupants
	}
	r.logger.Debug("chatroom report", "services", len(services), "rooms", len(rooms), "warnings", len(warnings))
	return rooms, warnings, nil
}

// OccupantLookup is the result of RoomOccupants: Room is set when the room is listed by the server,
// Fallback otherwise.
type OccupantLookup struct {
	Room     *types.ChatRoom
	Fallback *types.RoomOccupants
}

// Record returns the record to render.
func (l OccupantLookup) Record() interface{} {
	if l.Room != nil {
		return l.Room
	}
	return l.Fallback
}

// RoomOccupants looks up one room in the unfiltered listing and fetches its occupants. Any failure is
// returned as an error.
func (r *Reporter) RoomOccupants(ctx context.Context, roomName string) (OccupantLookup, error) {
	listed, err := r.chatrooms.List(ctx, api.RoomQuery{})
	if err != nil {
		return OccupantLookup{}, fmt.Errorf("could not list chatrooms: %w", err)
	}
	var found *types.ChatRoom
	for i := range listed {
		if listed[i].RoomName == roomName {
			found = &listed[i]
			break
		}
	}
	occupants, err := r.chatrooms.Occupants(ctx, roomName, "")
	if err != nil {
		return OccupantLookup{}, fmt.Errorf("could not fetch occupants of room %s: %w", roomName, err)
	}
	if found == nil {
		r.logger.Debug("room not listed, using fallback record", "room", roomName)
		return OccupantLookup{Fallback: &types.RoomOccupants{RoomName: roomName, Occupants: occupants}}, nil
	}
	found.Occupants = occupants
	return OccupantLookup{Room: found}, nil
}
