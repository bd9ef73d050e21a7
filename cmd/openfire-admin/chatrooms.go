package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tcriess/openfire-admin/api"
	"github.com/tcriess/openfire-admin/config"
	"github.com/tcriess/openfire-admin/report"
	"github.com/tcriess/openfire-admin/types"
)

type chatroomsReport struct {
	ChatRooms []types.ChatRoom `json:"chatRooms"`
}

func (a *app) chatroomsCmd() *cobra.Command {
	var serviceName, roomType, search, roomName, filterSrc string
	cmd := &cobra.Command{
		Use:   "chatrooms",
		Short: "Show chatrooms and their occupants",
		Long: `chatrooms lists the rooms of the given service, of all discovered services or of the default service,
each with its current occupants. With --room-name only the occupants of that room are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch roomType {
			case "", api.RoomTypeAll, api.RoomTypePublic:
			default:
				return fmt.Errorf("%w: --room-type must be %q or %q", config.ErrConfiguration, api.RoomTypeAll, api.RoomTypePublic)
			}
			f, err := compileFilter(filterSrc)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if roomName != "" {
				lookup, err := a.reporter().RoomOccupants(ctx, roomName)
				if err != nil {
					return err
				}
				return a.write(ctx, chatroomsEndpoint, "Room "+roomName, lookup.Record())
			}

			rooms, warnings, err := a.reporter().Chatrooms(ctx, report.ChatroomQuery{
				ServiceName: serviceName,
				Type:        roomType,
				Search:      search,
			})
			if err != nil {
				return err
			}
			logWarnings(warnings)
			rooms, err = f.Rooms(rooms)
			if err != nil {
				return err
			}
			return a.write(ctx, chatroomsEndpoint, "Chatrooms", chatroomsReport{ChatRooms: rooms})
		},
	}
	cmd.Flags().StringVar(&serviceName, "service-name", "", "only list the rooms of this chat service")
	cmd.Flags().StringVar(&roomType, "room-type", "", "room type: all or public")
	cmd.Flags().StringVar(&search, "search", "", "only list rooms whose name contains this string")
	cmd.Flags().StringVar(&roomName, "room-name", "", "show the occupants of this room only")
	addFilterFlag(cmd, &filterSrc)
	return cmd
}
