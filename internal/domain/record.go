package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Publisher identifies the outlet a provider item came from.
type Publisher struct {
	Name string `json:"title"`
	Href string `json:"href"`
}

// RawNewsItem is one unprocessed search result from the news provider.
// Field names follow the provider's item dict, including the space in
// "published date".
type RawNewsItem struct {
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	PublishedDate string    `json:"published date"`
	URL           string    `json:"url"`
	Publisher     Publisher `json:"publisher"`
}

// Date is a calendar day, held as midnight UTC and serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the calendar day y-m-d. Out-of-range values normalize the
// same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date ("2024-07-05").
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q: %v", ErrValidation, s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// Before reports whether d is an earlier day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: date must be a string: %v", ErrValidation, err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// OutageRecord is one news article describing a power outage.
// Households, Locations and Reason are nil when not annotated; they serialize
// as null to match the curated dataset files.
type OutageRecord struct {
	Date       Date     `json:"date"`
	Title      string   `json:"title" validate:"required"`
	URL        string   `json:"url" validate:"required,url"`
	Households *int     `json:"households" validate:"omitempty,gte=0"`
	Locations  []string `json:"locations" validate:"omitempty,dive,required"`
	Reason     *string  `json:"reason"`
}

// Annotations carries the hand-curated facts attached to a fetched item.
type Annotations struct {
	Households *int
	Locations  []string
	Reason     *string
}

func (r OutageRecord) String() string {
	return fmt.Sprintf("%s: %s", r.Date, r.Title)
}

// HasReason reports whether the record carries a cause description.
func (r OutageRecord) HasReason() bool {
	return r.Reason != nil
}

// AffectedHouseholds returns the household count, or 0 when absent.
func (r OutageRecord) AffectedHouseholds() int {
	if r.Households == nil {
		return 0
	}
	return *r.Households
}
