package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/outage-news-etl/internal/domain"
	"github.com/couchcryptid/outage-news-etl/internal/observability"
	"github.com/couchcryptid/outage-news-etl/internal/store"
)

// ErrInvalidRange is returned when the start month is after the end month.
var ErrInvalidRange = errors.New("invalid month range")

// Fetcher returns the raw provider items for one month.
type Fetcher interface {
	FetchMonth(ctx context.Context, ym domain.YearMonth) ([]domain.RawNewsItem, error)
}

// Transformer converts a raw provider item into an outage record.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawNewsItem) (domain.OutageRecord, error)
}

// Store loads and saves the whole dataset.
type Store interface {
	Load() ([]domain.OutageRecord, error)
	Save(records []domain.OutageRecord) error
}

// Publisher forwards each month's new records downstream.
type Publisher interface {
	Publish(ctx context.Context, records []domain.OutageRecord) error
}

// Updater appends the outage news of a range of months to the dataset.
type Updater struct {
	fetcher     Fetcher
	transformer Transformer
	store       Store
	publisher   Publisher
	keep        func(domain.OutageRecord) bool
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewUpdater creates an Updater that keeps records whose title contains
// keyword. Pass a nil publisher to disable publishing.
func NewUpdater(f Fetcher, t Transformer, s Store, p Publisher, keyword string, logger *slog.Logger, metrics *observability.Metrics) *Updater {
	return &Updater{
		fetcher:     f,
		transformer: t,
		store:       s,
		publisher:   p,
		keep:        domain.TitleContains(keyword),
		logger:      logger,
		metrics:     metrics,
	}
}

// Run fetches every month from start through end in order and appends the
// relevant records to the dataset. The first fetch failure stops the batch.
// Whatever was accumulated, including the months fetched before a failure,
// is saved before Run returns.
func (u *Updater) Run(ctx context.Context, start, end domain.YearMonth) (err error) {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %w", ErrInvalidRange, err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: end: %w", ErrInvalidRange, err)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start, end)
	}

	records, err := u.store.Load()
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	u.logger.Info("update started", "start", start.String(), "end", end.String(), "existing", len(records))
	u.metrics.UpdaterRunning.Set(1)
	defer u.metrics.UpdaterRunning.Set(0)

	defer func() {
		if saveErr := u.store.Save(records); saveErr != nil {
			u.logger.Error("save dataset failed", "error", saveErr)
			err = errors.Join(err, fmt.Errorf("save dataset: %w", saveErr))
			return
		}
		u.metrics.DatasetSize.Set(float64(len(records)))
		u.logger.Info("dataset saved", "records", len(records))
	}()

	for ym := start; !end.Before(ym); ym = ym.Next() {
		if err := ctx.Err(); err != nil {
			u.logger.Info("update stopping", "reason", err, "next_month", ym.String())
			return err
		}

		batch, err := u.processMonth(ctx, ym)
		if err != nil {
			u.metrics.FetchErrors.Inc()
			u.logger.Error("fetch month failed", "month", ym.String(), "error", err)
			return fmt.Errorf("fetch %s: %w", ym, err)
		}

		records = store.Extend(records, batch...)
		u.metrics.RecordsAppended.Add(float64(len(batch)))
		u.metrics.MonthsProcessed.Inc()
		u.publish(ctx, ym, batch)
	}

	return nil
}

// processMonth fetches and normalizes one month, returning the relevant
// records sorted by date. Items that fail normalization are skipped.
func (u *Updater) processMonth(ctx context.Context, ym domain.YearMonth) ([]domain.OutageRecord, error) {
	u.logger.Info("fetching month", "month", ym.String())
	start := time.Now()

	raws, err := u.fetcher.FetchMonth(ctx, ym)
	u.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	u.metrics.ItemsFetched.Add(float64(len(raws)))

	batch := make([]domain.OutageRecord, 0, len(raws))
	var invalid, irrelevant int
	for _, raw := range raws {
		rec, err := u.transformer.Transform(ctx, raw)
		if err != nil {
			u.logger.Warn("normalize failed, skipping item",
				"error", err,
				"month", ym.String(),
				"title", raw.Title,
				"url", raw.URL,
			)
			invalid++
			continue
		}
		if !u.keep(rec) {
			irrelevant++
			continue
		}
		batch = append(batch, rec)
	}
	u.metrics.RecordsRejected.WithLabelValues("invalid").Add(float64(invalid))
	u.metrics.RecordsRejected.WithLabelValues("irrelevant").Add(float64(irrelevant))

	store.SortByDate(batch)

	u.logger.Info("month fetched",
		"month", ym.String(),
		"fetched", len(raws),
		"kept", len(batch),
		"invalid", invalid,
		"irrelevant", irrelevant,
	)
	return batch, nil
}

// publish forwards a month's records. Failures are logged and counted only.
func (u *Updater) publish(ctx context.Context, ym domain.YearMonth, batch []domain.OutageRecord) {
	if u.publisher == nil || len(batch) == 0 {
		return
	}
	if err := u.publisher.Publish(ctx, batch); err != nil {
		u.metrics.PublishErrors.Inc()
		u.logger.Warn("publish month failed", "month", ym.String(), "records", len(batch), "error", err)
		return
	}
	u.metrics.RecordsPublished.Add(float64(len(batch)))
}
