package main

import (
	"github.com/spf13/cobra"
	"github.com/tcriess/openfire-admin/api"
)

func (a *app) rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster USERNAME",
		Short: "Show the roster of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			roster, err := api.NewRosters(a.client).Get(ctx, args[0])
			if err != nil {
				return err
			}
			return a.write(ctx, rosterEndpoint, "Roster "+args[0], roster)
		},
	}
}
