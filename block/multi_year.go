package block

import (
	"fmt"
	"time"

	"github.com/arloliu/weft/errs"
)

// MultiYearBlock covers whole calendar years with a single Chebyshev series.
// It is the most space-efficient and least precise block kind, typically used
// for slow-moving quantities such as outer-planet longitudes.
//
// Coverage is [start_year-01-01T00:00Z, (start_year+duration)-01-01T00:00Z).
type MultiYearBlock struct {
	// StartYear is the first calendar year covered.
	StartYear int16
	// Duration is the number of years covered, at least 1.
	Duration uint16
	// Coeffs holds the Chebyshev-T series coefficients, c_0 first.
	Coeffs []float32
}

// Marker returns MarkerMultiYear.
func (b MultiYearBlock) Marker() uint16 { return MarkerMultiYear }

// Coverage returns the block's half-open year range as instants.
func (b MultiYearBlock) Coverage() (time.Time, time.Time) {
	start := dateUTC(int(b.StartYear), 1, 1)
	end := dateUTC(int(b.StartYear)+int(b.Duration), 1, 1)

	return start, end
}

// Covers reports whether t falls inside the block's year range.
func (b MultiYearBlock) Covers(t time.Time) bool {
	start, end := b.Coverage()

	return !t.Before(start) && t.Before(end)
}

// Evaluate computes the series at t, affine-mapped over the full year range.
func (b MultiYearBlock) Evaluate(t time.Time) float64 {
	start, end := b.Coverage()

	return evaluateAt(b.Coeffs, t, start, end)
}

// Bytes serializes the block, marker included.
//
// Layout: marker(2) start_year(i16) duration(u16) coef_count(u32) coeffs(f32...).
func (b MultiYearBlock) Bytes() []byte {
	buf := make([]byte, 0, MarkerSize+MultiYearHeaderSize+len(b.Coeffs)*CoefficientSize)
	buf = engine.AppendUint16(buf, MarkerMultiYear)
	buf = engine.AppendUint16(buf, uint16(b.StartYear))
	buf = engine.AppendUint16(buf, b.Duration)
	buf = engine.AppendUint32(buf, uint32(len(b.Coeffs)))

	return appendCoeffs(buf, b.Coeffs)
}

// ParseMultiYearBlock decodes a multi-year block from data positioned just
// after the marker.
//
// Parameters:
//   - data: Byte slice starting at the block header
//
// Returns:
//   - MultiYearBlock: Decoded block
//   - int: Bytes consumed from data
//   - error: errs.ErrTruncatedBlock if data ends inside the block
func ParseMultiYearBlock(data []byte) (MultiYearBlock, int, error) {
	if len(data) < MultiYearHeaderSize {
		return MultiYearBlock{}, 0, fmt.Errorf("%w: multi-year header needs %d bytes, have %d",
			errs.ErrTruncatedBlock, MultiYearHeaderSize, len(data))
	}

	blk := MultiYearBlock{
		StartYear: int16(engine.Uint16(data[0:2])),
		Duration:  engine.Uint16(data[2:4]),
	}
	count := int(engine.Uint32(data[4:8]))

	need := MultiYearHeaderSize + count*CoefficientSize
	if len(data) < need {
		return MultiYearBlock{}, 0, fmt.Errorf("%w: multi-year block declares %d coefficients, payload truncated",
			errs.ErrTruncatedBlock, count)
	}
	blk.Coeffs = parseCoeffs(data[MultiYearHeaderSize:], count)

	return blk, need, nil
}
