package domain

import (
	"context"
	"sort"
)

// PlaceSource supplies the canonical administrative-region names that record
// locations must come from.
type PlaceSource interface {
	PlaceNames(ctx context.Context) ([]string, error)
}

// PlaceSet is a lookup set of canonical place names.
type PlaceSet map[string]struct{}

// NewPlaceSet builds a set from names.
func NewPlaceSet(names []string) PlaceSet {
	s := make(PlaceSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is canonical.
func (s PlaceSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the set members sorted.
func (s PlaceSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// UnknownLocations returns the distinct location names used by records that
// are not in the canonical set, sorted. Records without locations are skipped.
func UnknownLocations(records []OutageRecord, canonical PlaceSet) []string {
	unknown := make(PlaceSet)
	for _, r := range records {
		for _, loc := range r.Locations {
			if !canonical.Contains(loc) {
				unknown[loc] = struct{}{}
			}
		}
	}
	return unknown.Names()
}

// UnclassifiedReasons returns the records whose reason is present but matches
// no cause group.
func UnclassifiedReasons(records []OutageRecord) []OutageRecord {
	return FilterRecords(records, func(r OutageRecord) bool {
		return r.HasReason() && r.ReasonSymbol() == NoMatch
	})
}
