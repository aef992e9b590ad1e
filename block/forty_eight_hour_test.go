package block

import (
	"testing"
	"time"

	"github.com/arloliu/weft/errs"
	"github.com/stretchr/testify/require"
)

func testHeader(blockSize uint16, blockCount uint32) FortyEightHourSectionHeader {
	return FortyEightHourSectionHeader{
		StartYear: 2024, StartMonth: 1, StartDay: 1,
		EndYear: 2024, EndMonth: 1, EndDay: 4,
		BlockSize:  blockSize,
		BlockCount: blockCount,
	}
}

func TestSectionHeader_RoundTrip(t *testing.T) {
	original := testHeader(32, 3)

	data := original.Bytes()
	require.Equal(t, MarkerSize+SectionHeaderPayloadSize, len(data))
	require.Equal(t, MarkerSectionHeader, engine.Uint16(data[0:2]))

	parsed, consumed, err := ParseSectionHeader(data[MarkerSize:])
	require.NoError(t, err)
	require.Equal(t, SectionHeaderPayloadSize, consumed)
	require.Equal(t, original, parsed)
}

func TestSectionHeader_Validate(t *testing.T) {
	t.Run("End before start", func(t *testing.T) {
		h := testHeader(32, 1)
		h.EndYear = 2023
		require.ErrorIs(t, h.Validate(), errs.ErrInvalidSectionHeader)

		_, _, err := ParseSectionHeader(h.Bytes()[MarkerSize:])
		require.ErrorIs(t, err, errs.ErrInvalidSectionHeader)
	})

	t.Run("Block size too small", func(t *testing.T) {
		h := testHeader(8, 1)
		require.ErrorIs(t, h.Validate(), errs.ErrInvalidSectionHeader)
	})
}

func TestSectionHeader_ContainsInstant(t *testing.T) {
	h := testHeader(32, 3)

	// One day of slack on the left: the Jan 1 block reaches back to Dec 31.
	require.True(t, h.ContainsInstant(time.Date(2023, 12, 31, 6, 0, 0, 0, time.UTC)))
	require.True(t, h.ContainsInstant(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)))
	require.True(t, h.ContainsInstant(time.Date(2024, 1, 3, 23, 0, 0, 0, time.UTC)))
	require.False(t, h.ContainsInstant(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)))
	require.False(t, h.ContainsInstant(time.Date(2023, 12, 30, 23, 0, 0, 0, time.UTC)))
}

func TestSectionHeader_CoefficientCapacity(t *testing.T) {
	require.Equal(t, 6, testHeader(32, 1).CoefficientCapacity())
	require.Equal(t, 1, testHeader(10, 1).CoefficientCapacity())
}

func TestFortyEightHourBlock_RoundTrip(t *testing.T) {
	header := testHeader(32, 1)
	original := NewFortyEightHourBlock(2024, 1, 2, []float32{0.5, -0.25, 0.125})

	data, err := original.PaddedBytes(int(header.BlockSize))
	require.NoError(t, err)
	require.Len(t, data, int(header.BlockSize))
	require.Equal(t, MarkerFortyEightHour, engine.Uint16(data[0:2]))

	parsed, consumed, err := ParseFortyEightHourBlock(data[MarkerSize:], header)
	require.NoError(t, err)
	require.Equal(t, int(header.BlockSize)-MarkerSize, consumed)
	require.Equal(t, original, parsed)
}

func TestNewFortyEightHourBlock_Canonical(t *testing.T) {
	t.Run("Strips trailing zeros", func(t *testing.T) {
		blk := NewFortyEightHourBlock(2024, 1, 1, []float32{1, 2, 0, 0})
		require.Equal(t, []float32{1, 2}, blk.Coeffs)
	})

	t.Run("Keeps interior zeros", func(t *testing.T) {
		blk := NewFortyEightHourBlock(2024, 1, 1, []float32{1, 0, 2})
		require.Equal(t, []float32{1, 0, 2}, blk.Coeffs)
	})

	t.Run("All zeros collapses to one", func(t *testing.T) {
		blk := NewFortyEightHourBlock(2024, 1, 1, []float32{0, 0, 0})
		require.Equal(t, []float32{0}, blk.Coeffs)
	})

	t.Run("Empty becomes single zero", func(t *testing.T) {
		blk := NewFortyEightHourBlock(2024, 1, 1, nil)
		require.Equal(t, []float32{0}, blk.Coeffs)
	})
}

func TestFortyEightHourBlock_Coverage(t *testing.T) {
	blk := NewFortyEightHourBlock(2024, 1, 2, []float32{1})

	start, end := blk.Coverage()
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), end)
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), blk.Center())

	require.True(t, blk.Covers(start))
	require.True(t, blk.Covers(blk.Center()))
	require.False(t, blk.Covers(end))
}

func TestFortyEightHourBlock_Evaluate(t *testing.T) {
	// Linear series: x=-1 at center-24h, x=0 at center, x=+1 at center+24h.
	blk := NewFortyEightHourBlock(2024, 1, 2, []float32{10, 4})

	require.InDelta(t, 10.0, blk.Evaluate(blk.Center()), 1e-6)
	require.InDelta(t, 6.0, blk.Evaluate(blk.Center().Add(-24*time.Hour)), 1e-6)
	require.InDelta(t, 12.0, blk.Evaluate(blk.Center().Add(12*time.Hour)), 1e-6)
}

func TestFortyEightHourBlock_PaddedBytes_TooSmall(t *testing.T) {
	blk := NewFortyEightHourBlock(2024, 1, 1, []float32{1, 2, 3, 4, 5, 6, 7})

	_, err := blk.PaddedBytes(16)
	require.ErrorIs(t, err, errs.ErrSizeMismatch)
}

func TestParseFortyEightHourBlock_Truncated(t *testing.T) {
	header := testHeader(32, 1)
	blk := NewFortyEightHourBlock(2024, 1, 2, []float32{1})

	data, err := blk.PaddedBytes(int(header.BlockSize))
	require.NoError(t, err)

	_, _, err = ParseFortyEightHourBlock(data[MarkerSize:len(data)-4], header)
	require.ErrorIs(t, err, errs.ErrTruncatedBlock)
}

func TestParseSectionHeader_Truncated(t *testing.T) {
	h := testHeader(32, 1)

	_, _, err := ParseSectionHeader(h.Bytes()[MarkerSize : MarkerSize+6])
	require.ErrorIs(t, err, errs.ErrTruncatedBlock)
}
