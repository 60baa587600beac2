package format

import (
	"fmt"
	"time"
)

// agoUnits lists the relative-time units in ascending coarseness. Each unit
// is abandoned for the next once the value reaches its cutoff, purely for
// readability.
var agoUnits = []struct {
	suffix string
	scale  time.Duration
	cutoff float64
}{
	{"s ago", time.Second, 120},
	{"m ago", time.Minute, 120},
	{"h ago", time.Hour, 48},
	{"d ago", 24 * time.Hour, 100},
}

// agoDigits is the numeral width of the short relative form.
const agoDigits = 3

// Time returns a fixed-width representation of t.
//
// Long form is the absolute timestamp with sub-second precision. Short form
// is a compact "N <unit> ago" relative to now, falling back to a
// right-padded "YYYY-MM" once the value is too old for the day unit. Every
// short-form branch occupies the same width.
func Time(t time.Time, long bool, now time.Time) string {
	if long {
		return t.Format("2006-01-02 15:04:05.000000")
	}

	ago := now.Sub(t)
	for _, u := range agoUnits {
		n := float64(ago) / float64(u.scale)
		if n >= u.cutoff {
			continue
		}
		s, ok := fixedLength(n, agoDigits)
		if !ok {
			continue
		}
		return s + u.suffix
	}

	return fmt.Sprintf("%*s", agoDigits+len(agoUnits[0].suffix), t.Format("2006-01"))
}
