package main

import (
	"github.com/spf13/cobra"
	"github.com/tcriess/openfire-admin/api"
	"github.com/tcriess/openfire-admin/report"
	"github.com/tcriess/openfire-admin/types"
)

type usersReport struct {
	Users []types.UserReport `json:"users"`
}

func (a *app) usersCmd() *cobra.Command {
	var username, filterSrc string
	var unread bool
	query := api.UserQuery{}
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Show users with their presence",
		Long: `users lists the users (or one user with --user), each annotated with whether it is logged on, whether
all its sessions are local to the answering cluster node and which rooms it occupies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := compileFilter(filterSrc)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			domain := a.cfg.XMPPDomain

			if username != "" {
				user, warnings, err := a.reporter().User(ctx, username, unread, domain)
				if err != nil {
					return err
				}
				logWarnings(warnings)
				return a.write(ctx, usersEndpoint, "User "+username, user)
			}

			users, warnings, err := a.reporter().Users(ctx, report.UserQuery{UserQuery: query, Unread: unread, Domain: domain})
			if err != nil {
				return err
			}
			logWarnings(warnings)
			users, err = f.Users(users)
			if err != nil {
				return err
			}
			return a.write(ctx, usersEndpoint, "Users", usersReport{Users: users})
		},
	}
	cmd.Flags().StringVar(&username, "user", "", "show this user only")
	cmd.Flags().StringVar(&query.Search, "search", "", "only list users matching this search string")
	cmd.Flags().StringVar(&query.PropertyKey, "property-key", "", "only list users having this property")
	cmd.Flags().StringVar(&query.PropertyValue, "property-value", "", "value of --property-key to match")
	cmd.Flags().BoolVar(&unread, "unread", false, "add the number of unread archived messages")
	cmd.Flags().AddFlagSet(a.usersFlags)
	addFilterFlag(cmd, &filterSrc)
	return cmd
}
