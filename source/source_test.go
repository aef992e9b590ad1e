package source

import (
	"slices"
	"testing"
	"time"

	"github.com/arloliu/weft/errs"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestFuncSource(t *testing.T) {
	src := &FuncSource{
		StartTime: date(2024, 1, 1),
		EndTime:   date(2024, 1, 2),
		Step:      time.Hour,
		Fn:        func(tm time.Time) float64 { return tm.Sub(date(2024, 1, 1)).Hours() },
	}

	timestamps := slices.Collect(src.Timestamps())
	require.Len(t, timestamps, 25) // inclusive endpoints
	require.Equal(t, src.Start(), timestamps[0])
	require.Equal(t, src.End(), timestamps[24])
	require.True(t, slices.IsSortedFunc(timestamps, func(a, b time.Time) int { return a.Compare(b) }))

	v, err := src.ValueAt(time.Date(2024, 1, 1, 6, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.InDelta(t, 6.5, v, 1e-12)
}

func TestSliceSource(t *testing.T) {
	times := []time.Time{
		date(2024, 1, 1),
		date(2024, 1, 2),
		date(2024, 1, 4),
	}
	values := []float64{10, 20, 60}

	src, err := NewSliceSource(times, values)
	require.NoError(t, err)
	require.Equal(t, times[0], src.Start())
	require.Equal(t, times[2], src.End())
	require.Equal(t, times, slices.Collect(src.Timestamps()))

	t.Run("Exact sample", func(t *testing.T) {
		v, err := src.ValueAt(date(2024, 1, 2))
		require.NoError(t, err)
		require.Equal(t, 20.0, v)
	})

	t.Run("Interpolates between neighbors", func(t *testing.T) {
		v, err := src.ValueAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.InDelta(t, 15.0, v, 1e-12)

		// Uneven spacing: halfway through the two-day gap.
		v, err = src.ValueAt(date(2024, 1, 3))
		require.NoError(t, err)
		require.InDelta(t, 40.0, v, 1e-12)
	})

	t.Run("Out of range", func(t *testing.T) {
		_, err := src.ValueAt(date(2023, 12, 31))
		require.ErrorIs(t, err, errs.ErrOutOfRange)
		_, err = src.ValueAt(date(2024, 1, 5))
		require.ErrorIs(t, err, errs.ErrOutOfRange)
	})
}

func TestNewSliceSource_Invalid(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := NewSliceSource(nil, nil)
		require.ErrorIs(t, err, errs.ErrEmptyDataSource)
	})

	t.Run("Length mismatch", func(t *testing.T) {
		_, err := NewSliceSource([]time.Time{date(2024, 1, 1)}, []float64{1, 2})
		require.Error(t, err)
	})

	t.Run("Not ascending", func(t *testing.T) {
		_, err := NewSliceSource(
			[]time.Time{date(2024, 1, 2), date(2024, 1, 1)},
			[]float64{1, 2},
		)
		require.Error(t, err)
	})
}
