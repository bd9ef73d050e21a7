package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tcriess/openfire-admin/api"
	"github.com/tcriess/openfire-admin/config"
	"github.com/tcriess/openfire-admin/globals"
	"github.com/tcriess/openfire-admin/types"
)

type groupsReport struct {
	Groups []types.Group `json:"groups"`
}

// readGroup decodes a group definition given as argument, or from stdin if the argument is "-".
func (a *app) readGroup(arg string) (types.Group, error) {
	var r io.Reader
	if arg == "-" {
		r = a.stdin
	} else {
		r = bytes.NewReader([]byte(arg))
	}
	group := types.Group{}
	if err := json.NewDecoder(r).Decode(&group); err != nil {
		return group, fmt.Errorf("%w: could not decode group: %v", config.ErrConfiguration, err)
	}
	return group, nil
}

func (a *app) groupsCmd() *cobra.Command {
	var groupName, filterSrc string
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Show groups",
		Long:  `groups lists all groups with their members and admins, or one group with --group-name.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := compileFilter(filterSrc)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			groups := api.NewGroups(a.client)
			if groupName != "" {
				group, err := groups.Get(ctx, groupName)
				if err != nil {
					return err
				}
				return a.write(ctx, groupsEndpoint, "Group "+groupName, group)
			}
			list, err := groups.ListDetailed(ctx)
			if err != nil {
				return err
			}
			list, err = f.Groups(list)
			if err != nil {
				return err
			}
			return a.write(ctx, groupsEndpoint, "Groups", groupsReport{Groups: list})
		},
	}
	cmd.Flags().StringVar(&groupName, "group-name", "", "show this group only")
	addFilterFlag(cmd, &filterSrc)

	var cmdCreate = &cobra.Command{
		Use:   "create [group definition]",
		Short: "Create group",
		Long:  `create creates a group from its JSON definition. If the definition is "-", it is read from STDIN.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := a.readGroup(args[0])
			if err != nil {
				return err
			}
			if group.Name == "" {
				return fmt.Errorf("%w: no group name", config.ErrConfiguration)
			}
			if err := api.NewGroupWriter(a.client).Create(cmd.Context(), group); err != nil {
				return err
			}
			globals.AppLogger.Info("created group", "group", group.Name)
			return nil
		},
	}
	var cmdUpdate = &cobra.Command{
		Use:   "update [group name] [group definition]",
		Short: "Update group",
		Long:  `update replaces the group with the given name by the JSON definition. If the definition is "-", it is read from STDIN.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := a.readGroup(args[1])
			if err != nil {
				return err
			}
			if group.Name == "" {
				group.Name = args[0]
			}
			if err := api.NewGroupWriter(a.client).Update(cmd.Context(), args[0], group); err != nil {
				return err
			}
			globals.AppLogger.Info("updated group", "group", args[0])
			return nil
		},
	}
	var cmdDelete = &cobra.Command{
		Use:   "delete [group name]",
		Short: "Delete group",
		Long:  `delete removes the group with the given name.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api.NewGroupWriter(a.client).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			globals.AppLogger.Info("deleted group", "group", args[0])
			return nil
		},
	}
	cmd.AddCommand(cmdCreate, cmdUpdate, cmdDelete)
	return cmd
}
