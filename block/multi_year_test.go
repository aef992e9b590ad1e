package block

import (
	"testing"
	"time"

	"github.com/arloliu/weft/errs"
	"github.com/stretchr/testify/require"
)

func TestMultiYearBlock_RoundTrip(t *testing.T) {
	original := MultiYearBlock{
		StartYear: 2000,
		Duration:  10,
		Coeffs:    []float32{123.25, -4.5, 0.875, 0.0625},
	}

	data := original.Bytes()
	require.Equal(t, MarkerSize+MultiYearHeaderSize+4*CoefficientSize, len(data))
	require.Equal(t, MarkerMultiYear, engine.Uint16(data[0:2]))

	parsed, consumed, err := ParseMultiYearBlock(data[MarkerSize:])
	require.NoError(t, err)
	require.Equal(t, len(data)-MarkerSize, consumed)
	require.Equal(t, original, parsed)
}

func TestMultiYearBlock_NegativeYear(t *testing.T) {
	original := MultiYearBlock{StartYear: -100, Duration: 50, Coeffs: []float32{1}}

	parsed, _, err := ParseMultiYearBlock(original.Bytes()[MarkerSize:])
	require.NoError(t, err)
	require.Equal(t, int16(-100), parsed.StartYear)
}

func TestMultiYearBlock_Coverage(t *testing.T) {
	blk := MultiYearBlock{StartYear: 2000, Duration: 10, Coeffs: []float32{1}}

	start, end := blk.Coverage()
	require.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), end)

	require.True(t, blk.Covers(start))
	require.True(t, blk.Covers(time.Date(2005, 6, 15, 12, 0, 0, 0, time.UTC)))
	// Half-open: the right-hand boundary belongs to the next block.
	require.False(t, blk.Covers(end))
	require.False(t, blk.Covers(start.Add(-time.Second)))
}

func TestMultiYearBlock_Evaluate(t *testing.T) {
	// Linear series c_0 + c_1·x: x=-1 at start, x=+1 at end.
	blk := MultiYearBlock{StartYear: 2000, Duration: 2, Coeffs: []float32{100, 50}}

	start, end := blk.Coverage()
	require.InDelta(t, 50.0, blk.Evaluate(start), 1e-6)

	mid := start.Add(end.Sub(start) / 2)
	require.InDelta(t, 100.0, blk.Evaluate(mid), 1e-6)
}

func TestParseMultiYearBlock_Truncated(t *testing.T) {
	blk := MultiYearBlock{StartYear: 2000, Duration: 1, Coeffs: []float32{1, 2, 3}}
	data := blk.Bytes()[MarkerSize:]

	_, _, err := ParseMultiYearBlock(data[:4])
	require.ErrorIs(t, err, errs.ErrTruncatedBlock)

	_, _, err = ParseMultiYearBlock(data[:len(data)-2])
	require.ErrorIs(t, err, errs.ErrTruncatedBlock)
}
