package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/outage-news-etl/internal/adapter/boundary"
)

func newPlacesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "places",
		Short: "List the canonical place names from the boundary file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			names, err := boundary.NewFile(cfg.BoundaryPath, cfg.BoundaryNameProperty).PlaceNames(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
