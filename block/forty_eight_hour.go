package block

import (
	"fmt"
	"time"

	"github.com/arloliu/weft/errs"
)

// FortyEightHourBlock is the highest-precision block kind: a Chebyshev series
// over the 48 hours centered on one midnight UTC.
//
// Coverage is [center-24h, center+24h) where center is year-month-day at
// midnight. Adjacent blocks therefore overlap by 24 hours; the reader blends
// linearly inside the overlap.
//
// The serialized form is padded with zero coefficients to exactly the
// BlockSize declared by the governing section header, so a run of blocks is
// seekable by index.
type FortyEightHourBlock struct {
	// Year, Month, Day name the center date.
	Year  int16
	Month uint8
	Day   uint8
	// Coeffs holds the significant Chebyshev-T coefficients, trailing zeros
	// stripped. Padding is reconstructed on write from the section header.
	Coeffs []float32
}

// NewFortyEightHourBlock builds a block for the given center date with the
// coefficients in canonical form: trailing zero coefficients stripped, at
// least one coefficient retained. Canonical form makes parse(serialize(b))
// structurally identical to b.
func NewFortyEightHourBlock(year, month, day int, coeffs []float32) FortyEightHourBlock {
	return FortyEightHourBlock{
		Year:   int16(year),
		Month:  uint8(month),
		Day:    uint8(day),
		Coeffs: trimTrailingZeros(coeffs),
	}
}

// Marker returns MarkerFortyEightHour.
func (b FortyEightHourBlock) Marker() uint16 { return MarkerFortyEightHour }

// Center returns midnight UTC of the block's center date.
func (b FortyEightHourBlock) Center() time.Time {
	return dateUTC(int(b.Year), int(b.Month), int(b.Day))
}

// Coverage returns the half-open 48-hour window around the center.
func (b FortyEightHourBlock) Coverage() (time.Time, time.Time) {
	center := b.Center()

	return center.Add(-24 * time.Hour), center.Add(24 * time.Hour)
}

// Covers reports whether t falls inside the 48-hour window.
func (b FortyEightHourBlock) Covers(t time.Time) bool {
	start, end := b.Coverage()

	return !t.Before(start) && t.Before(end)
}

// Evaluate computes the series at t. The mapping places x=-1 at center-24h,
// x=0 at the center midnight, and x=+1 at center+24h.
func (b FortyEightHourBlock) Evaluate(t time.Time) float64 {
	start, end := b.Coverage()

	return evaluateAt(b.Coeffs, t, start, end)
}

// SerializedSize returns the unpadded byte length of the block.
func (b FortyEightHourBlock) SerializedSize() int {
	return MarkerSize + FortyEightHourDateSize + len(b.Coeffs)*CoefficientSize
}

// Bytes serializes the block without padding. Most callers want PaddedBytes;
// Bytes exists to satisfy the Block interface and to size fresh sections.
func (b FortyEightHourBlock) Bytes() []byte {
	buf := make([]byte, 0, b.SerializedSize())
	buf = engine.AppendUint16(buf, MarkerFortyEightHour)
	buf = engine.AppendUint16(buf, uint16(b.Year))
	buf = append(buf, b.Month, b.Day)

	return appendCoeffs(buf, b.Coeffs)
}

// PaddedBytes serializes the block zero-padded to exactly blockSize bytes,
// marker included, as required inside a section.
//
// Returns:
//   - []byte: Serialized block of length blockSize
//   - error: errs.ErrSizeMismatch if the coefficients do not fit
func (b FortyEightHourBlock) PaddedBytes(blockSize int) ([]byte, error) {
	raw := b.Bytes()
	if len(raw) > blockSize {
		return nil, fmt.Errorf("%w: forty-eight hour block needs %d bytes, section block size is %d",
			errs.ErrSizeMismatch, len(raw), blockSize)
	}

	buf := make([]byte, blockSize)
	copy(buf, raw)

	return buf, nil
}

// ParseFortyEightHourBlock decodes one forty-eight hour block from data
// positioned just after the marker. The governing section header supplies the
// expected byte length; without it the block boundary is unknowable.
//
// Parameters:
//   - data: Byte slice starting at the block date
//   - header: The active section header
//
// Returns:
//   - FortyEightHourBlock: Decoded block in canonical (zero-stripped) form
//   - int: Bytes consumed from data (header.BlockSize - MarkerSize)
//   - error: errs.ErrTruncatedBlock if data is shorter than the declared size
func ParseFortyEightHourBlock(data []byte, header FortyEightHourSectionHeader) (FortyEightHourBlock, int, error) {
	payload := int(header.BlockSize) - MarkerSize
	if len(data) < payload {
		return FortyEightHourBlock{}, 0, fmt.Errorf("%w: forty-eight hour block needs %d bytes, have %d",
			errs.ErrTruncatedBlock, payload, len(data))
	}

	blk := FortyEightHourBlock{
		Year:  int16(engine.Uint16(data[0:2])),
		Month: data[2],
		Day:   data[3],
	}
	count := (payload - FortyEightHourDateSize) / CoefficientSize
	blk.Coeffs = trimTrailingZeros(parseCoeffs(data[FortyEightHourDateSize:], count))

	return blk, payload, nil
}

// trimTrailingZeros drops zero coefficients from the tail, keeping at least
// one coefficient so an all-zero block still evaluates.
func trimTrailingZeros(coeffs []float32) []float32 {
	n := len(coeffs)
	for n > 1 && coeffs[n-1] == 0 {
		n--
	}
	if n == 0 {
		return []float32{0}
	}

	out := make([]float32, n)
	copy(out, coeffs[:n])

	return out
}
