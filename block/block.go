package block

import (
	"math"
	"time"

	"github.com/arloliu/weft/cheb"
)

// Block is the tagged-variant interface shared by the three polynomial block
// kinds. Section headers carry no polynomial data and are not Blocks.
//
// Coverage is half-open [start, end): an instant exactly on the right-hand
// boundary belongs to the next block, so when two blocks meet at a boundary
// the one whose coverage begins there wins.
type Block interface {
	// Marker returns the two-byte kind marker of the block.
	Marker() uint16

	// Coverage returns the half-open [start, end) interval during which the
	// block's evaluation is authoritative.
	Coverage() (start, end time.Time)

	// Covers reports whether t falls inside the coverage interval.
	Covers(t time.Time) bool

	// Evaluate computes the block's Chebyshev series at t. Callers must
	// ensure Covers(t); the affine time mapping is clamped to [-1, +1] so
	// boundary rounding never escapes the canonical interval.
	Evaluate(t time.Time) float64

	// Bytes serializes the block, marker included.
	Bytes() []byte
}

// evaluateAt affine-maps t into [-1, +1] over [start, end) and evaluates the
// series there.
func evaluateAt(coeffs []float32, t, start, end time.Time) float64 {
	total := end.Sub(start).Seconds()
	elapsed := t.Sub(start).Seconds()
	x := cheb.Clamp(2.0*(elapsed/total) - 1.0)

	return cheb.Evaluate(coeffs, x)
}

// appendCoeffs appends the coefficient payload big-endian.
func appendCoeffs(buf []byte, coeffs []float32) []byte {
	for _, c := range coeffs {
		buf = engine.AppendUint32(buf, math.Float32bits(c))
	}

	return buf
}

// parseCoeffs decodes count big-endian IEEE 754 coefficients from data.
// The caller has already verified len(data) >= count*CoefficientSize.
func parseCoeffs(data []byte, count int) []float32 {
	coeffs := make([]float32, count)
	for i := 0; i < count; i++ {
		bits := engine.Uint32(data[i*CoefficientSize:])
		coeffs[i] = math.Float32frombits(bits)
	}

	return coeffs
}

// dateUTC returns midnight UTC of the given calendar day.
func dateUTC(year int, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
