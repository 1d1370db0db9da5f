package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/outage-news-etl/internal/domain"
	"github.com/couchcryptid/outage-news-etl/internal/store"
)

func newStatsCommand() *cobra.Command {
	var latest int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the dataset by cause and location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			records, err := store.NewJSONStore(cfg.DatasetPath).Load()
			if err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), records, latest)
			return nil
		},
	}

	cmd.Flags().IntVar(&latest, "latest", 10, "number of most recent outages with a known cause to list")
	return cmd
}

// tally accumulates a record count and household total per key.
type tally struct {
	key        string
	records    int
	households int
}

func writeStats(w io.Writer, records []domain.OutageRecord, latest int) {
	var withReason []domain.OutageRecord
	for _, r := range records {
		if r.HasReason() {
			withReason = append(withReason, r)
		}
	}

	fmt.Fprintf(w, "Records: %d\n", len(records))
	fmt.Fprintf(w, "With reason: %d\n", len(withReason))
	fmt.Fprintf(w, "Affected households: %d\n", totalHouseholds(records))

	printSection(w, "Causes", []string{"Symbol", "Records", "Households"}, tallyRows(causeTallies(records)))
	printSection(w, "Locations", []string{"Location", "Records", "Households"}, tallyRows(locationTallies(records)))

	if latest > 0 {
		tail := withReason
		if len(tail) > latest {
			tail = tail[len(tail)-latest:]
		}
		rows := make([][]string, 0, len(tail))
		for _, r := range tail {
			rows = append(rows, []string{r.Date.String(), households(r), r.ReasonSymbol(), r.Title})
		}
		printSection(w, "Latest outages", []string{"Date", "Households", "Cause", "Title"}, rows)
	}
}

func printSection(w io.Writer, title string, header []string, rows [][]string) {
	fmt.Fprintf(w, "\n%s\n\n", title)
	fmt.Fprintln(w, strings.Join(renderTable(header, rows), "\n"))
}

func totalHouseholds(records []domain.OutageRecord) int {
	total := 0
	for _, r := range records {
		total += r.AffectedHouseholds()
	}
	return total
}

// causeTallies groups records with a reason by cause symbol, in cause table
// order. Unclassified reasons are grouped under "?".
func causeTallies(records []domain.OutageRecord) []tally {
	bySymbol := make(map[string]*tally)
	for _, r := range records {
		if !r.HasReason() {
			continue
		}
		sym := r.ReasonSymbol()
		if sym == domain.NoMatch {
			sym = "?"
		}
		t, ok := bySymbol[sym]
		if !ok {
			t = &tally{key: sym}
			bySymbol[sym] = t
		}
		t.records++
		t.households += r.AffectedHouseholds()
	}

	out := make([]tally, 0, len(bySymbol))
	for _, g := range domain.CauseTable {
		if t, ok := bySymbol[g.Symbol]; ok {
			out = append(out, *t)
		}
	}
	if t, ok := bySymbol["?"]; ok {
		out = append(out, *t)
	}
	return out
}

// locationTallies counts records per location, most records first, then by name.
func locationTallies(records []domain.OutageRecord) []tally {
	byName := make(map[string]*tally)
	for _, r := range records {
		for _, loc := range r.Locations {
			t, ok := byName[loc]
			if !ok {
				t = &tally{key: loc}
				byName[loc] = t
			}
			t.records++
			t.households += r.AffectedHouseholds()
		}
	}

	out := make([]tally, 0, len(byName))
	for _, t := range byName {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b tally) int {
		if c := cmp.Compare(b.records, a.records); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})
	return out
}

func tallyRows(tallies []tally) [][]string {
	rows := make([][]string, 0, len(tallies))
	for _, t := range tallies {
		rows = append(rows, []string{t.key, strconv.Itoa(t.records), strconv.Itoa(t.households)})
	}
	return rows
}

func households(r domain.OutageRecord) string {
	if r.Households == nil {
		return "-"
	}
	return strconv.Itoa(*r.Households)
}
