package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// PublishedDateLayout is the RFC-822 style layout of provider publish dates,
// e.g. "Fri, 05 Jul 2024 10:00:00 GMT". The day accepts one or two digits.
const PublishedDateLayout = "Mon, 2 Jan 2006 15:04:05 MST"

var validate = validator.New()

// ParsePublishedDate extracts the calendar date from a provider publish date.
// The zone abbreviation is parsed but not applied, so the date is the one
// written in the string.
func ParsePublishedDate(s string) (Date, error) {
	t, err := time.Parse(PublishedDateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: published date %q: %v", ErrValidation, s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// ParseRawItem converts a provider item into an unannotated OutageRecord.
func ParseRawItem(raw RawNewsItem) (OutageRecord, error) {
	return NewRecord(raw, Annotations{})
}

// NewRecord converts a provider item plus curated annotations into a validated
// OutageRecord. It fails with ErrValidation when the publish date or the URL is
// malformed.
func NewRecord(raw RawNewsItem, ann Annotations) (OutageRecord, error) {
	date, err := ParsePublishedDate(raw.PublishedDate)
	if err != nil {
		return OutageRecord{}, err
	}

	rec := OutageRecord{
		Date:       date,
		Title:      strings.TrimSpace(raw.Title),
		URL:        strings.TrimSpace(raw.URL),
		Households: ann.Households,
		Locations:  ann.Locations,
		Reason:     ann.Reason,
	}
	if err := rec.Validate(); err != nil {
		return OutageRecord{}, err
	}
	return rec, nil
}

// Validate checks the record invariants: a set calendar date, a title, an
// absolute URL, a non-negative household count and, when locations are
// present, at least one non-empty name.
func (r OutageRecord) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if r.Locations != nil && len(r.Locations) == 0 {
		return fmt.Errorf("%w: locations must not be empty when present", ErrValidation)
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// TitleContains returns a predicate keeping records whose title contains
// keyword. It is the coarse relevance filter applied after fetching.
func TitleContains(keyword string) func(OutageRecord) bool {
	return func(r OutageRecord) bool {
		return strings.Contains(r.Title, keyword)
	}
}

// FilterRecords returns the records for which keep is true, preserving order.
func FilterRecords(records []OutageRecord, keep func(OutageRecord) bool) []OutageRecord {
	out := make([]OutageRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// WithHouseholds drops records whose household count is absent or zero.
func WithHouseholds(records []OutageRecord) []OutageRecord {
	return FilterRecords(records, func(r OutageRecord) bool {
		return r.AffectedHouseholds() > 0
	})
}
