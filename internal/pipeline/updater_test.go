package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/outage-news-etl/internal/domain"
	"github.com/couchcryptid/outage-news-etl/internal/observability"
	"github.com/couchcryptid/outage-news-etl/internal/pipeline"
)

const keyword = "停電"

var (
	jan = domain.YearMonth{Year: 2024, Month: time.January}
	feb = domain.YearMonth{Year: 2024, Month: time.February}
	mar = domain.YearMonth{Year: 2024, Month: time.March}
)

// --- mocks ---

type memStore struct {
	records []domain.OutageRecord
	loadErr error
	saveErr error
	loads   int
	saves   int
}

func (m *memStore) Load() ([]domain.OutageRecord, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.OutageRecord(nil), m.records...), nil
}

func (m *memStore) Save(records []domain.OutageRecord) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append([]domain.OutageRecord(nil), records...)
	return nil
}

type fakeFetcher struct {
	items map[domain.YearMonth][]domain.RawNewsItem
	errs  map[domain.YearMonth]error
	calls []domain.YearMonth
}

func (f *fakeFetcher) FetchMonth(_ context.Context, ym domain.YearMonth) ([]domain.RawNewsItem, error) {
	f.calls = append(f.calls, ym)
	if err := f.errs[ym]; err != nil {
		return nil, err
	}
	return f.items[ym], nil
}

type recordingPublisher struct {
	batches [][]domain.OutageRecord
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, records []domain.OutageRecord) error {
	p.batches = append(p.batches, records)
	return p.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rawItem(day int, month time.Month, title string) domain.RawNewsItem {
	return domain.RawNewsItem{
		Title:         title,
		PublishedDate: fmt.Sprintf("Mon, %02d %s 2024 10:00:00 GMT", day, month.String()[:3]),
		URL:           fmt.Sprintf("https://example.com/%d/%d/%s", month, day, title),
	}
}

func newUpdater(f pipeline.Fetcher, s pipeline.Store, p pipeline.Publisher, m *observability.Metrics) *pipeline.Updater {
	return pipeline.NewUpdater(f, pipeline.NewTransformer(), s, p, keyword, discardLogger(), m)
}

func titles(records []domain.OutageRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Title)
	}
	return out
}

// --- tests ---

func TestUpdater_Run_HappyPath(t *testing.T) {
	existing := domain.OutageRecord{
		Date:  domain.NewDate(2023, time.December, 30),
		Title: "既有停電",
		URL:   "https://example.com/existing",
	}
	st := &memStore{records: []domain.OutageRecord{existing}}
	f := &fakeFetcher{items: map[domain.YearMonth][]domain.RawNewsItem{
		jan: {rawItem(20, time.January, "一月下旬停電"), rawItem(3, time.January, "一月上旬停電")},
		feb: {rawItem(14, time.February, "二月停電")},
	}}
	metrics := observability.NewMetricsForTesting()

	err := newUpdater(f, st, nil, metrics).Run(context.Background(), jan, feb)
	require.NoError(t, err)

	assert.Equal(t, []domain.YearMonth{jan, feb}, f.calls)
	assert.Equal(t, 1, st.saves)
	want := []string{"既有停電", "一月上旬停電", "一月下旬停電", "二月停電"}
	if diff := cmp.Diff(want, titles(st.records)); diff != "" {
		t.Errorf("dataset mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "2024-01-03", st.records[1].Date.String())

	assert.InDelta(t, 3, testutil.ToFloat64(metrics.ItemsFetched), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RecordsAppended), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.MonthsProcessed), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(metrics.DatasetSize), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.UpdaterRunning), 0)
}

func TestUpdater_Run_SingleMonth(t *testing.T) {
	st := &memStore{}
	f := &fakeFetcher{items: map[domain.YearMonth][]domain.RawNewsItem{
		mar: {rawItem(1, time.March, "三月停電")},
	}}

	require.NoError(t, newUpdater(f, st, nil, observability.NewMetricsForTesting()).Run(context.Background(), mar, mar))
	assert.Equal(t, []domain.YearMonth{mar}, f.calls)
	assert.Equal(t, []string{"三月停電"}, titles(st.records))
}

func TestUpdater_Run_YearRollover(t *testing.T) {
	dec := domain.YearMonth{Year: 2023, Month: time.December}
	f := &fakeFetcher{}

	require.NoError(t, newUpdater(f, &memStore{}, nil, observability.NewMetricsForTesting()).Run(context.Background(), dec, feb))
	assert.Equal(t, []domain.YearMonth{dec, jan, feb}, f.calls)
}

func TestUpdater_Run_FailureKeepsEarlierMonths(t *testing.T) {
	st := &memStore{}
	f := &fakeFetcher{
		items: map[domain.YearMonth][]domain.RawNewsItem{
			jan: {rawItem(10, time.January, "一月停電")},
			mar: {rawItem(10, time.March, "三月停電")},
		},
		errs: map[domain.YearMonth]error{
			feb: fmt.Errorf("%w: status 503", domain.ErrProvider),
		},
	}
	metrics := observability.NewMetricsForTesting()

	err := newUpdater(f, st, nil, metrics).Run(context.Background(), jan, mar)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Contains(t, err.Error(), "2024-02")

	assert.Equal(t, []domain.YearMonth{jan, feb}, f.calls, "batch stops at the failing month")
	assert.Equal(t, 1, st.saves)
	assert.Equal(t, []string{"一月停電"}, titles(st.records))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FetchErrors), 0)
}

func TestUpdater_Run_SaveErrorJoinsFetchError(t *testing.T) {
	saveErr := errors.New("disk full")
	st := &memStore{saveErr: saveErr}
	f := &fakeFetcher{errs: map[domain.YearMonth]error{jan: domain.ErrProvider}}

	err := newUpdater(f, st, nil, observability.NewMetricsForTesting()).Run(context.Background(), jan, feb)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.ErrorIs(t, err, saveErr)
	assert.Equal(t, 1, st.saves)
}

func TestUpdater_Run_TwiceDuplicates(t *testing.T) {
	st := &memStore{}
	f := &fakeFetcher{items: map[domain.YearMonth][]domain.RawNewsItem{
		jan: {rawItem(10, time.January, "一月停電")},
	}}
	u := newUpdater(f, st, nil, observability.NewMetricsForTesting())

	require.NoError(t, u.Run(context.Background(), jan, jan))
	require.NoError(t, u.Run(context.Background(), jan, jan))

	require.Len(t, st.records, 2)
	assert.Equal(t, st.records[0], st.records[1])
}

func TestUpdater_Run_InvalidRange(t *testing.T) {
	st := &memStore{}
	f := &fakeFetcher{}

	err := newUpdater(f, st, nil, observability.NewMetricsForTesting()).Run(context.Background(), mar, jan)
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrInvalidRange)
	assert.Zero(t, st.loads, "range is checked before loading")
	assert.Zero(t, st.saves)
	assert.Empty(t, f.calls)
}

func TestUpdater_Run_InvalidMonth(t *testing.T) {
	st := &memStore{}
	bad := domain.YearMonth{Year: 2024, Month: 13}

	err := newUpdater(&fakeFetcher{}, st, nil, observability.NewMetricsForTesting()).Run(context.Background(), jan, bad)
	assert.ErrorIs(t, err, pipeline.ErrInvalidRange)
	assert.Zero(t, st.loads)
}

func TestUpdater_Run_LoadError(t *testing.T) {
	st := &memStore{loadErr: domain.ErrStorage}
	f := &fakeFetcher{}

	err := newUpdater(f, st, nil, observability.NewMetricsForTesting()).Run(context.Background(), jan, jan)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Zero(t, st.saves)
	assert.Empty(t, f.calls)
}

func TestUpdater_Run_SkipsInvalidAndIrrelevantItems(t *testing.T) {
	bad := rawItem(5, time.January, "日期錯誤停電")
	bad.PublishedDate = "2024-01-05"
	noURL := rawItem(6, time.January, "連結錯誤停電")
	noURL.URL = "not a url"

	st := &memStore{}
	f := &fakeFetcher{items: map[domain.YearMonth][]domain.RawNewsItem{
		jan: {bad, rawItem(7, time.January, "用電創新高"), noURL, rawItem(8, time.January, "正常停電")},
	}}
	metrics := observability.NewMetricsForTesting()

	require.NoError(t, newUpdater(f, st, nil, metrics).Run(context.Background(), jan, jan))

	assert.Equal(t, []string{"正常停電"}, titles(st.records))
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RecordsRejected.WithLabelValues("invalid")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RecordsRejected.WithLabelValues("irrelevant")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RecordsAppended), 0)
}

func TestUpdater_Run_Publishes(t *testing.T) {
	pub := &recordingPublisher{}
	f := &fakeFetcher{items: map[domain.YearMonth][]domain.RawNewsItem{
		jan: {rawItem(7, time.January, "一月停電")},
		mar: {rawItem(7, time.March, "三月停電"), rawItem(2, time.March, "三月初停電")},
	}}
	metrics := observability.NewMetricsForTesting()

	require.NoError(t, newUpdater(f, &memStore{}, pub, metrics).Run(context.Background(), jan, mar))

	require.Len(t, pub.batches, 2, "empty months are not published")
	assert.Equal(t, []string{"一月停電"}, titles(pub.batches[0]))
	assert.Equal(t, []string{"三月初停電", "三月停電"}, titles(pub.batches[1]))
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RecordsPublished), 0)
}

func TestUpdater_Run_PublishErrorIsNotFatal(t *testing.T) {
	st := &memStore{}
	pub := &recordingPublisher{err: errors.New("broker down")}
	f := &fakeFetcher{items: map[domain.YearMonth][]domain.RawNewsItem{
		jan: {rawItem(7, time.January, "一月停電")},
		feb: {rawItem(7, time.February, "二月停電")},
	}}
	metrics := observability.NewMetricsForTesting()

	require.NoError(t, newUpdater(f, st, pub, metrics).Run(context.Background(), jan, feb))

	assert.Len(t, st.records, 2)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.PublishErrors), 0)
}

func TestUpdater_Run_ContextCancellationSaves(t *testing.T) {
	st := &memStore{records: []domain.OutageRecord{{
		Date:  domain.NewDate(2023, time.May, 1),
		Title: "既有停電",
		URL:   "https://example.com/existing",
	}}}
	f := &fakeFetcher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newUpdater(f, st, nil, observability.NewMetricsForTesting()).Run(ctx, jan, feb)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.calls)
	assert.Equal(t, 1, st.saves)
	assert.Len(t, st.records, 1)
}
