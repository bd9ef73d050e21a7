package main

import (
	"github.com/spf13/cobra"
	"github.com/tcriess/openfire-admin/api"
	"github.com/tcriess/openfire-admin/types"
)

type propertiesReport struct {
	Properties []types.SystemProperty `json:"properties"`
}

func (a *app) propertiesCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "properties",
		Short: "Show system properties",
		Long:  `properties lists all system properties, or one with --key.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			props := api.NewSystemProperties(a.client)
			if key != "" {
				prop, err := props.Get(ctx, key)
				if err != nil {
					return err
				}
				return a.write(ctx, propertiesEndpoint, "Property "+key, prop)
			}
			list, err := props.List(ctx)
			if err != nil {
				return err
			}
			return a.write(ctx, propertiesEndpoint, "Properties", propertiesReport{Properties: list})
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "show this property only")
	return cmd
}
