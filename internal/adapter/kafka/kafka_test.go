package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/outage-news-etl/internal/config"
	"github.com/couchcryptid/outage-news-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	households := 5041
	reason := "因施工不慎挖斷電纜"
	rec := domain.OutageRecord{
		Date:       domain.NewDate(2024, time.July, 5),
		Title:      "台南市停電 影響5041戶",
		URL:        "https://example.com/a",
		Households: &households,
		Locations:  []string{"臺南市"},
		Reason:     &reason,
	}

	msg, err := serializeToMessage(rec)
	require.NoError(t, err)

	assert.Equal(t, []byte("https://example.com/a"), msg.Key)
	assert.JSONEq(t, `{
		"date": "2024-07-05",
		"title": "台南市停電 影響5041戶",
		"url": "https://example.com/a",
		"households": 5041,
		"locations": ["臺南市"],
		"reason": "因施工不慎挖斷電纜"
	}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "date", msg.Headers[0].Key)
	assert.Equal(t, []byte("2024-07-05"), msg.Headers[0].Value)
	assert.Equal(t, "reason_symbol", msg.Headers[1].Key)
	assert.Equal(t, []byte(domain.SymbolConstruction), msg.Headers[1].Value)
}

func TestSerializeToMessage_NoReason(t *testing.T) {
	msg, err := serializeToMessage(domain.OutageRecord{
		Date:  domain.NewDate(2024, time.July, 5),
		Title: "停電",
		URL:   "https://example.com/b",
	})
	require.NoError(t, err)
	assert.Empty(t, msg.Headers[1].Value)
	assert.Contains(t, string(msg.Value), `"reason":null`)
}

func TestWriter_PublishEmptyIsNoop(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaTopic: "unused"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	assert.NoError(t, w.Publish(context.Background(), nil))
}
