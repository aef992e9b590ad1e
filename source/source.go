// Package source defines the data-source contract the weft writer samples
// from, plus in-memory and SQLite-cached implementations.
//
// A DataSource is a scalar quantity observable over a finite time range. How
// the values are obtained (remote ephemeris API, local table, analytic
// function) is the source's concern; the writer only samples.
package source

import (
	"fmt"
	"iter"
	"time"

	"github.com/arloliu/weft/errs"
)

// DataSource is the writer's view of an ephemeris quantity.
//
// Timestamps must be finite and ascending; ValueAt may interpolate
// internally and is expected to succeed for any instant within
// [Start, End]. For wrapping quantities the source returns any consistent
// representative; unwrapping before fitting is the writer's job.
type DataSource interface {
	// Start returns the earliest instant with data.
	Start() time.Time

	// End returns the latest instant with data.
	End() time.Time

	// Timestamps yields the source's sample instants in ascending order.
	Timestamps() iter.Seq[time.Time]

	// ValueAt returns the quantity at t.
	ValueAt(t time.Time) (float64, error)
}

// FuncSource adapts an analytic function to the DataSource contract. Sample
// timestamps are generated on a fixed step grid; values come from calling
// the function directly, so ValueAt is exact at any instant.
type FuncSource struct {
	// StartTime and EndTime delimit the covered range.
	StartTime time.Time
	EndTime   time.Time
	// Step is the timestamp grid spacing.
	Step time.Duration
	// Fn computes the quantity at an instant.
	Fn func(t time.Time) float64
}

var _ DataSource = (*FuncSource)(nil)

// Start returns the start of the covered range.
func (s *FuncSource) Start() time.Time { return s.StartTime }

// End returns the end of the covered range.
func (s *FuncSource) End() time.Time { return s.EndTime }

// Timestamps yields the grid instants from StartTime to EndTime inclusive.
func (s *FuncSource) Timestamps() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if s.Step <= 0 {
			return
		}
		for t := s.StartTime; !t.After(s.EndTime); t = t.Add(s.Step) {
			if !yield(t) {
				return
			}
		}
	}
}

// ValueAt evaluates the function at t.
func (s *FuncSource) ValueAt(t time.Time) (float64, error) {
	return s.Fn(t), nil
}

// SliceSource serves pre-fetched (timestamp, value) pairs, linearly
// interpolating between neighbors for instants off the sample grid. This is
// the natural adapter for values fetched in bulk from an ephemeris service.
type SliceSource struct {
	times  []time.Time
	values []float64
}

var _ DataSource = (*SliceSource)(nil)

// NewSliceSource builds a source over parallel slices. times must be
// ascending and the slices equally long.
func NewSliceSource(times []time.Time, values []float64) (*SliceSource, error) {
	if len(times) == 0 {
		return nil, errs.ErrEmptyDataSource
	}
	if len(times) != len(values) {
		return nil, fmt.Errorf("%w: %d timestamps vs %d values", errs.ErrEmptyDataSource, len(times), len(values))
	}
	for i := 1; i < len(times); i++ {
		if !times[i-1].Before(times[i]) {
			return nil, fmt.Errorf("timestamps not ascending at index %d (%s)", i, times[i].Format(time.RFC3339))
		}
	}

	return &SliceSource{times: times, values: values}, nil
}

// Start returns the first sample instant.
func (s *SliceSource) Start() time.Time { return s.times[0] }

// End returns the last sample instant.
func (s *SliceSource) End() time.Time { return s.times[len(s.times)-1] }

// Timestamps yields the sample instants.
func (s *SliceSource) Timestamps() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for _, t := range s.times {
			if !yield(t) {
				return
			}
		}
	}
}

// ValueAt returns the value at t, linearly interpolated between the two
// neighboring samples. Instants outside [Start, End] are out of range.
func (s *SliceSource) ValueAt(t time.Time) (float64, error) {
	if t.Before(s.Start()) || t.After(s.End()) {
		return 0, fmt.Errorf("%w: %s", errs.ErrOutOfRange, t.Format(time.RFC3339))
	}

	// First sample at or after t.
	lo, hi := 0, len(s.times)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if s.times[mid].Before(t) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if s.times[lo].Equal(t) {
		return s.values[lo], nil
	}

	left, right := lo-1, lo
	span := s.times[right].Sub(s.times[left]).Seconds()
	frac := t.Sub(s.times[left]).Seconds() / span

	return s.values[left] + frac*(s.values[right]-s.values[left]), nil
}
