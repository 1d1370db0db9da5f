package domain

import (
	"fmt"
	"time"
)

// YearMonth identifies one calendar month, the unit of a provider fetch.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("parse year-month %q: %w", s, err)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Validate reports an error when the month is outside 1-12.
func (ym YearMonth) Validate() error {
	if ym.Month < time.January || ym.Month > time.December {
		return fmt.Errorf("month %d out of range 1-12", ym.Month)
	}
	return nil
}

// Compare returns -1, 0 or +1 ordering by year then month.
func (ym YearMonth) Compare(other YearMonth) int {
	switch {
	case ym.Year < other.Year:
		return -1
	case ym.Year > other.Year:
		return 1
	case ym.Month < other.Month:
		return -1
	case ym.Month > other.Month:
		return 1
	default:
		return 0
	}
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Compare(other) < 0
}

// Next returns the following month; December rolls into January.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// FirstDay returns the first calendar day of the month.
func (ym YearMonth) FirstDay() Date {
	return NewDate(ym.Year, ym.Month, 1)
}

// LastDay returns the last calendar day of the month, honouring 28, 29, 30
// and 31 day months.
func (ym YearMonth) LastDay() Date {
	// Day 0 of the next month is the last day of this one.
	return NewDate(ym.Year, ym.Month+1, 0)
}

// Days returns the number of days in the month.
func (ym YearMonth) Days() int {
	return ym.LastDay().Day()
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// MonthOf returns the month containing d.
func MonthOf(d Date) YearMonth {
	return YearMonth{Year: d.Year(), Month: d.Month()}
}
