package block

import (
	"fmt"
	"time"

	"github.com/arloliu/weft/errs"
)

// MonthlyBlock covers a run of days anchored at the start of one calendar
// month. DayCount is normally the month's length (28-31) but partial-month
// blocks at a file's range boundary may carry any positive value; readers
// accept them as-is.
//
// Coverage is [year-month-01T00:00Z, year-month-01T00:00Z + day_count·24h).
type MonthlyBlock struct {
	// Year is the calendar year.
	Year int16
	// Month is the calendar month in [1, 12].
	Month uint8
	// DayCount is the number of days covered, at least 1.
	DayCount uint8
	// Coeffs holds the Chebyshev-T series coefficients, c_0 first.
	Coeffs []float32
}

// Marker returns MarkerMonthly.
func (b MonthlyBlock) Marker() uint16 { return MarkerMonthly }

// Coverage returns the block's half-open day range as instants.
func (b MonthlyBlock) Coverage() (time.Time, time.Time) {
	start := dateUTC(int(b.Year), int(b.Month), 1)
	end := start.Add(time.Duration(b.DayCount) * 24 * time.Hour)

	return start, end
}

// Covers reports whether t falls inside the block's day range.
func (b MonthlyBlock) Covers(t time.Time) bool {
	start, end := b.Coverage()

	return !t.Before(start) && t.Before(end)
}

// Evaluate computes the series at t, affine-mapped over the covered days.
func (b MonthlyBlock) Evaluate(t time.Time) float64 {
	start, end := b.Coverage()

	return evaluateAt(b.Coeffs, t, start, end)
}

// Bytes serializes the block, marker included.
//
// Layout: marker(2) year(i16) month(u8) day_count(u8) coef_count(u32) coeffs(f32...).
func (b MonthlyBlock) Bytes() []byte {
	buf := make([]byte, 0, MarkerSize+MonthlyHeaderSize+len(b.Coeffs)*CoefficientSize)
	buf = engine.AppendUint16(buf, MarkerMonthly)
	buf = engine.AppendUint16(buf, uint16(b.Year))
	buf = append(buf, b.Month, b.DayCount)
	buf = engine.AppendUint32(buf, uint32(len(b.Coeffs)))

	return appendCoeffs(buf, b.Coeffs)
}

// ParseMonthlyBlock decodes a monthly block from data positioned just after
// the marker.
//
// Validation: month must be in [1,12] and day_count positive. Day counts
// outside 28-31 are accepted (partial-month blocks) — the caller may warn.
//
// Parameters:
//   - data: Byte slice starting at the block header
//
// Returns:
//   - MonthlyBlock: Decoded block
//   - int: Bytes consumed from data
//   - error: errs.ErrTruncatedBlock or errs.ErrBadMarker on invalid fields
func ParseMonthlyBlock(data []byte) (MonthlyBlock, int, error) {
	if len(data) < MonthlyHeaderSize {
		return MonthlyBlock{}, 0, fmt.Errorf("%w: monthly header needs %d bytes, have %d",
			errs.ErrTruncatedBlock, MonthlyHeaderSize, len(data))
	}

	blk := MonthlyBlock{
		Year:     int16(engine.Uint16(data[0:2])),
		Month:    data[2],
		DayCount: data[3],
	}
	if blk.Month < 1 || blk.Month > 12 {
		return MonthlyBlock{}, 0, fmt.Errorf("%w: monthly block month %d outside [1,12]",
			errs.ErrBadMarker, blk.Month)
	}
	if blk.DayCount == 0 {
		return MonthlyBlock{}, 0, fmt.Errorf("%w: monthly block day count must be positive",
			errs.ErrBadMarker)
	}

	count := int(engine.Uint32(data[4:8]))
	need := MonthlyHeaderSize + count*CoefficientSize
	if len(data) < need {
		return MonthlyBlock{}, 0, fmt.Errorf("%w: monthly block declares %d coefficients, payload truncated",
			errs.ErrTruncatedBlock, count)
	}
	blk.Coeffs = parseCoeffs(data[MonthlyHeaderSize:], count)

	return blk, need, nil
}

// IsPartial reports whether the block's day count differs from the natural
// length of its calendar month.
func (b MonthlyBlock) IsPartial() bool {
	return int(b.DayCount) != DaysInMonth(int(b.Year), int(b.Month))
}

// DaysInMonth returns the number of days in the given calendar month.
func DaysInMonth(year, month int) int {
	first := dateUTC(year, month, 1)

	return int(first.AddDate(0, 1, 0).Sub(first).Hours() / 24)
}
