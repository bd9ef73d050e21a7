package main

import (
	"github.com/spf13/cobra"
	"github.com/tcriess/openfire-admin/api"
	"github.com/tcriess/openfire-admin/types"
)

type sessionsReport struct {
	Sessions []types.Session `json:"sessions"`
}

func (a *app) sessionsCmd() *cobra.Command {
	var username, filterSrc string
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Show client sessions",
		Long:  `sessions lists all live client sessions, or those of one user with --user.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := compileFilter(filterSrc)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sessions := api.NewSessions(a.client)
			var list []types.Session
			if username != "" {
				list, err = sessions.ForUser(ctx, username)
			} else {
				list, err = sessions.List(ctx)
			}
			if err != nil {
				return err
			}
			list, err = f.Sessions(list)
			if err != nil {
				return err
			}
			return a.write(ctx, sessionsEndpoint, "Sessions", sessionsReport{Sessions: list})
		},
	}
	cmd.Flags().StringVar(&username, "user", "", "only list the sessions of this user")
	addFilterFlag(cmd, &filterSrc)
	return cmd
}
