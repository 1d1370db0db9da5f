// Command outage maintains the Taiwan power-outage news dataset: it fetches
// monthly news, keeps the JSON dataset tidy, checks it against the county
// boundaries, and serves it to the map renderer.
//
// Usage:
//
//	outage update --start 2024-01 [--end 2024-07]
//	outage sort
//	outage validate
//	outage stats [--latest 10]
//	outage places
//	outage serve
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/outage-news-etl/internal/config"
	"github.com/couchcryptid/outage-news-etl/internal/observability"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "outage",
		Short:        "Taiwan power-outage news dataset tools",
		SilenceUsage: true,
	}

	root.AddCommand(
		newUpdateCommand(),
		newSortCommand(),
		newValidateCommand(),
		newStatsCommand(),
		newPlacesCommand(),
		newServeCommand(),
	)
	return root
}

// setup loads the configuration and builds the process logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, observability.NewLogger(cfg), nil
}
