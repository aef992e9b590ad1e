package weft

import (
	"fmt"
	"time"
)

// timespanBuffer is how far a range may poke past a calendar boundary and
// still count as inside it, so a source spanning 1999-12-31..2010-01-01
// still labels as "2000s".
const timespanBuffer = 24 * time.Hour

// InferTimespan derives the human-readable preamble timespan label from a
// coverage range.
//
// Forms, checked in order:
//   - single year "2024" when the range lies within one calendar year
//   - decade "2020s" when the range lies within one decade
//   - "YYYY-YYYY" otherwise
//
// Each boundary check allows a one-day buffer on both sides. The label is
// informational only; nothing parses it back.
func InferTimespan(start, end time.Time) string {
	start = start.UTC()
	end = end.UTC()

	year := start.Add(timespanBuffer).Year()
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)
	if !start.Before(yearStart.Add(-timespanBuffer)) && !end.After(yearEnd.Add(timespanBuffer)) {
		return fmt.Sprintf("%d", year)
	}

	decade := year - year%10
	decadeStart := time.Date(decade, 1, 1, 0, 0, 0, 0, time.UTC)
	decadeEnd := decadeStart.AddDate(10, 0, 0)
	if !start.Before(decadeStart.Add(-timespanBuffer)) && !end.After(decadeEnd.Add(timespanBuffer)) {
		return fmt.Sprintf("%ds", decade)
	}

	return fmt.Sprintf("%d-%d", start.Year(), end.Year())
}
