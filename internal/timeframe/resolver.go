package timeframe

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrUnresolvedTimeframe is returned when a time-bounding phrase does not
// match any supported form.
var ErrUnresolvedTimeframe = fmt.Errorf("unresolved timeframe")

// baselineShiftYears moves resolved ranges back to fit the coverage window of
// the historical dataset.
const baselineShiftYears = 2

// dateFormat is the wire format expected by the historical backend.
const dateFormat = "2006-01-02"

// Range is a resolved calendar date range. Both bounds nil means "no explicit
// bounds": the historical backend falls back to its climatological baseline.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// Bounded reports whether the range carries explicit start/end dates.
func (r Range) Bounded() bool {
	return r.Start != nil && r.End != nil
}

// StartString returns the start date as YYYY-MM-DD, or "" when unbounded.
func (r Range) StartString() string {
	if r.Start == nil {
		return ""
	}
	return r.Start.Format(dateFormat)
}

// EndString returns the end date as YYYY-MM-DD, or "" when unbounded.
func (r Range) EndString() string {
	if r.End == nil {
		return ""
	}
	return r.End.Format(dateFormat)
}

var lastForm = regexp.MustCompile(`last (.+)`)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// Resolve turns a natural time-bounding phrase into a concrete date range
// relative to now. "usual" resolves to the unbounded range. The "last <unit>"
// grammar supports week, month, year and month names. Anything else fails
// with ErrUnresolvedTimeframe.
//
// Resolved ranges are shifted back by baselineShiftYears; the shift applies
// identically to both bounds so the range length is preserved.
func Resolve(phrase string, now time.Time) (Range, error) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "usual" {
		return Range{}, nil
	}

	match := lastForm.FindStringSubmatch(phrase)
	if match == nil {
		return Range{}, fmt.Errorf("%w: %q", ErrUnresolvedTimeframe, phrase)
	}

	start, end, err := lastFormRange(match[1], now)
	if err != nil {
		return Range{}, err
	}

	start = start.AddDate(-baselineShiftYears, 0, 0)
	end = end.AddDate(-baselineShiftYears, 0, 0)

	return Range{Start: &start, End: &end}, nil
}

// lastFormRange computes the nominal (pre-shift) range for "last <unit>".
func lastFormRange(unit string, now time.Time) (time.Time, time.Time, error) {
	y, m, d := now.Date()

	switch unit {
	case "week":
		// Back to the Monday before the current week, spanning seven days.
		start := time.Date(y, m, d-(7+int(now.Weekday())-1), 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, 7), nil

	case "month":
		start := time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, time.UTC)
		return start, end, nil

	case "year":
		start := time.Date(y-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(y-1, time.December, 31, 0, 0, 0, 0, time.UTC)
		return start, end, nil
	}

	for i, name := range monthNames {
		if name == unit {
			start := time.Date(y-1, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(y-1, time.Month(i+2), 0, 0, 0, 0, 0, time.UTC)
			return start, end, nil
		}
	}

	return time.Time{}, time.Time{}, fmt.Errorf("%w: last %q", ErrUnresolvedTimeframe, unit)
}
