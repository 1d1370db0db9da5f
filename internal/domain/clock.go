package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// taipei is the reference zone for "current month"; news dates are local to Taiwan.
var taipei = time.FixedZone("CST", 8*60*60)

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// CurrentMonth returns the month containing now, in Taiwan time.
func CurrentMonth() YearMonth {
	now := clock.Now().In(taipei)
	return YearMonth{Year: now.Year(), Month: now.Month()}
}
