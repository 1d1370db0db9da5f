package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/outage-news-etl/internal/adapter/googlenews"
	kafkaadapter "github.com/couchcryptid/outage-news-etl/internal/adapter/kafka"
	"github.com/couchcryptid/outage-news-etl/internal/config"
	"github.com/couchcryptid/outage-news-etl/internal/domain"
	"github.com/couchcryptid/outage-news-etl/internal/observability"
	"github.com/couchcryptid/outage-news-etl/internal/pipeline"
	"github.com/couchcryptid/outage-news-etl/internal/store"
)

func newUpdateCommand() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch outage news month by month and append it to the dataset",
		Long: "Fetch outage news for every month from --start through --end and append " +
			"the relevant articles to the dataset. The months fetched before a failure are kept.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			startYM, endYM, err := parseRange(start, end)
			if err != nil {
				return err
			}
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return runUpdate(cmd.Context(), cfg, logger, startYM, endYM)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first month to fetch (YYYY-MM)")
	cmd.Flags().StringVar(&end, "end", "", "last month to fetch (YYYY-MM, defaults to the current month in Taiwan)")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func parseRange(start, end string) (domain.YearMonth, domain.YearMonth, error) {
	startYM, err := domain.ParseYearMonth(start)
	if err != nil {
		return domain.YearMonth{}, domain.YearMonth{}, fmt.Errorf("--start: %w", err)
	}
	endYM := domain.CurrentMonth()
	if end != "" {
		if endYM, err = domain.ParseYearMonth(end); err != nil {
			return domain.YearMonth{}, domain.YearMonth{}, fmt.Errorf("--end: %w", err)
		}
	}
	return startYM, endYM, nil
}

func runUpdate(ctx context.Context, cfg *config.Config, logger *slog.Logger, start, end domain.YearMonth) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()

	client := googlenews.NewClient(cfg.NewsBaseURL, cfg.NewsTimeout, cfg.NewsRateLimitRPM, logger, metrics)
	connector := pipeline.NewMonthConnector(client, pipeline.SearchConfig{
		Query:        cfg.NewsQuery,
		Language:     cfg.NewsLanguage,
		Country:      cfg.NewsCountry,
		MaxResults:   cfg.NewsMaxResults,
		ExcludeSites: cfg.NewsExcludeSites,
	})

	// Publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("record publishing enabled", "topic", cfg.KafkaTopic)
	}

	dataset := store.NewJSONStore(cfg.DatasetPath)
	u := pipeline.NewUpdater(connector, pipeline.NewTransformer(), dataset, publisher, cfg.NewsKeyword, logger, metrics)

	return u.Run(ctx, start, end)
}
