package pipeline

import (
	"context"

	"github.com/couchcryptid/outage-news-etl/internal/domain"
)

// NewsTransformer implements Transformer by normalizing provider items into
// unannotated outage records.
type NewsTransformer struct{}

// NewTransformer creates a NewsTransformer.
func NewTransformer() *NewsTransformer {
	return &NewsTransformer{}
}

func (t *NewsTransformer) Transform(_ context.Context, raw domain.RawNewsItem) (domain.OutageRecord, error) {
	return domain.ParseRawItem(raw)
}
