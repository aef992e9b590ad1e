package weft

import (
	"slices"
	"time"

	"github.com/arloliu/weft/source"
)

// coverageStats summarizes the data-source timestamps falling inside one
// candidate block's coverage interval.
type coverageStats struct {
	// count is the number of timestamps inside [start, end).
	count int
	// first and last are the earliest and latest such timestamps.
	first, last time.Time
}

// analyzeCoverage locates the timestamps inside [start, end) by binary
// search over the ascending timestamp slice.
func analyzeCoverage(timestamps []time.Time, start, end time.Time) coverageStats {
	lo, _ := slices.BinarySearchFunc(timestamps, start, compareTime)
	hi, _ := slices.BinarySearchFunc(timestamps, end, compareTime)
	if lo >= hi {
		return coverageStats{}
	}

	return coverageStats{
		count: hi - lo,
		first: timestamps[lo],
		last:  timestamps[hi-1],
	}
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

// ratio returns the span-based coverage ratio over the given nominal span:
// (t_max - t_min) / span. Deliberately not gap-sensitive, so regular
// sampling at any rate yields a ratio near 1.
func (s coverageStats) ratio(span time.Duration) float64 {
	if s.count < 2 || span <= 0 {
		return 0
	}

	return s.last.Sub(s.first).Seconds() / span.Seconds()
}

// samplesPerDay returns the observed sample density over the given span.
func (s coverageStats) samplesPerDay(span time.Duration) float64 {
	if s.count == 0 || span <= 0 {
		return 0
	}

	return float64(s.count) / (span.Seconds() / 86400)
}

// RecommendedConfig inspects a data source's span and sample density and
// returns a block-kind configuration suited to it. The preamble identity
// fields are left empty for the caller to fill.
//
// Heuristics, highest precision first:
//   - forty-eight hour blocks need at least hourly sampling and pay off only
//     on short spans (up to about a month)
//   - monthly blocks need a few samples per day over at least a week
//   - multi-year blocks need a multi-year span but tolerate sparse sampling
func RecommendedConfig(src source.DataSource) Config {
	var cfg Config
	cfg.normalize()

	timestamps := slices.Collect(src.Timestamps())
	if len(timestamps) == 0 {
		return cfg
	}

	span := src.End().Sub(src.Start())
	totalDays := span.Seconds() / 86400
	stats := analyzeCoverage(timestamps, src.Start(), src.End().Add(time.Nanosecond))
	density := stats.samplesPerDay(span)

	switch {
	case density >= 24:
		switch {
		case totalDays <= 7:
			cfg.FortyEightHour.Enabled = true
		case totalDays <= 31:
			cfg.Monthly.Enabled = true
			cfg.FortyEightHour.Enabled = true
		default:
			cfg.Monthly.Enabled = true
			cfg.MultiYear.Enabled = totalDays >= 365*2
		}
	case density >= 4:
		cfg.Monthly.Enabled = totalDays >= 7
		cfg.MultiYear.Enabled = totalDays >= 365*2
	default:
		// Sparse sampling only supports the coarsest blocks.
		cfg.MultiYear.Enabled = totalDays >= 365*2 && density >= 1.0/7
	}

	return cfg
}
