package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/outage-news-etl/internal/adapter/boundary"
	"github.com/couchcryptid/outage-news-etl/internal/domain"
	"github.com/couchcryptid/outage-news-etl/internal/store"
)

var errValidationFailed = errors.New("validation failed")

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every record names canonical places and a classifiable cause",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			dataset := store.NewJSONStore(cfg.DatasetPath)
			if err := dataset.CheckReadiness(cmd.Context()); err != nil {
				return err
			}
			records, err := dataset.Load()
			if err != nil {
				return err
			}
			names, err := boundary.NewFile(cfg.BoundaryPath, cfg.BoundaryNameProperty).PlaceNames(cmd.Context())
			if err != nil {
				return err
			}

			if !runValidation(cmd.OutOrStdout(), records, domain.NewPlaceSet(names)) {
				return errValidationFailed
			}
			return nil
		},
	}
}

// runValidation runs every phase, prints a report to w and reports whether
// all phases passed.
func runValidation(w io.Writer, records []domain.OutageRecord, places domain.PlaceSet) bool {
	fmt.Fprintln(w, "=== Outage Dataset Validation ===")
	fmt.Fprintln(w)

	phases := []*phase{
		validateLocations(records, places),
		validateReasons(records),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d, canonical places: %d\n", len(records), len(places))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return true
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return false
}

// ── Phase 1: Locations ──
// Every location must be a name from the boundary file.

func validateLocations(records []domain.OutageRecord, places domain.PlaceSet) *phase {
	p := &phase{name: "Phase 1: Locations (boundary names)"}
	for _, loc := range domain.UnknownLocations(records, places) {
		p.errorf("unknown location %q", loc)
	}
	return p
}

// ── Phase 2: Reasons ──
// Every present reason must match a cause group.

func validateReasons(records []domain.OutageRecord) *phase {
	p := &phase{name: "Phase 2: Reasons (cause symbols)"}
	for _, r := range domain.UnclassifiedReasons(records) {
		p.errorf("%s %q: reason %q matches no cause group", r.Date, r.Title, *r.Reason)
	}
	return p
}
