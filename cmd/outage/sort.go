package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/outage-news-etl/internal/store"
)

func newSortCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "Sort the dataset by date, keeping the order of same-day records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			dataset := store.NewJSONStore(cfg.DatasetPath)
			records, err := dataset.Load()
			if err != nil {
				return err
			}
			store.SortByDate(records)
			if err := dataset.Save(records); err != nil {
				return err
			}

			logger.Info("dataset sorted", "path", dataset.Path(), "records", len(records))
			fmt.Fprintf(cmd.OutOrStdout(), "sorted %d records\n", len(records))
			return nil
		},
	}
}
