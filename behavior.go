package weft

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/weft/errs"
	"github.com/arloliu/weft/format"
)

// ValueBehavior describes the range semantics of the quantity stored in a
// file. It controls both fit pre-processing in the writer (angle unwrapping)
// and post-processing in the reader (modulo reduction or clamping).
type ValueBehavior struct {
	// Kind selects wrapping, bounded, or unbounded semantics.
	Kind format.BehaviorKind
	// Min and Max delimit the range for wrapping and bounded behaviors.
	// Both are zero for unbounded.
	Min float64
	Max float64
}

// Unbounded returns the behavior for raw, unrestricted values such as
// distance.
func Unbounded() ValueBehavior {
	return ValueBehavior{Kind: format.BehaviorUnbounded}
}

// Wrapping returns the behavior for values that wrap modulo [min, max), such
// as longitude in [0, 360) or right ascension in [0, 24).
func Wrapping(minVal, maxVal float64) ValueBehavior {
	return ValueBehavior{Kind: format.BehaviorWrapping, Min: minVal, Max: maxVal}
}

// Bounded returns the behavior for values clamped to [min, max], such as
// latitude in [-90, 90].
func Bounded(minVal, maxVal float64) ValueBehavior {
	return ValueBehavior{Kind: format.BehaviorBounded, Min: minVal, Max: maxVal}
}

// Span returns the width of the range. Zero for unbounded.
func (v ValueBehavior) Span() float64 {
	return v.Max - v.Min
}

// Apply post-processes an evaluated value according to the behavior:
// wrapping values are reduced modulo the span into [Min, Max), bounded
// values are clamped to [Min, Max], unbounded values pass through.
func (v ValueBehavior) Apply(value float64) float64 {
	switch v.Kind {
	case format.BehaviorWrapping:
		span := v.Span()
		value = math.Mod(value-v.Min, span)
		if value < 0 {
			value += span
		}

		return value + v.Min
	case format.BehaviorBounded:
		return math.Min(v.Max, math.Max(v.Min, value))
	default:
		return value
	}
}

// String renders the preamble token: "wrapping[0,360]", "bounded[-90,90]",
// or "" for unbounded (the preamble omits the field entirely).
func (v ValueBehavior) String() string {
	switch v.Kind {
	case format.BehaviorWrapping, format.BehaviorBounded:
		return fmt.Sprintf("%s[%s,%s]", v.Kind,
			strconv.FormatFloat(v.Min, 'g', -1, 64),
			strconv.FormatFloat(v.Max, 'g', -1, 64))
	default:
		return ""
	}
}

// ParseValueBehavior decodes a preamble behavior token. The empty string and
// the literal "unbounded" both decode to the unbounded behavior.
func ParseValueBehavior(token string) (ValueBehavior, error) {
	if token == "" || token == "unbounded" {
		return Unbounded(), nil
	}

	open := strings.IndexByte(token, '[')
	if open < 0 || !strings.HasSuffix(token, "]") {
		return ValueBehavior{}, fmt.Errorf("%w: malformed value behavior %q", errs.ErrInvalidPreamble, token)
	}

	kind := token[:open]
	body := token[open+1 : len(token)-1]
	lo, hi, found := strings.Cut(body, ",")
	if !found {
		return ValueBehavior{}, fmt.Errorf("%w: value behavior %q needs a min,max range", errs.ErrInvalidPreamble, token)
	}

	minVal, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return ValueBehavior{}, fmt.Errorf("%w: bad range minimum in %q", errs.ErrInvalidPreamble, token)
	}
	maxVal, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return ValueBehavior{}, fmt.Errorf("%w: bad range maximum in %q", errs.ErrInvalidPreamble, token)
	}
	if maxVal <= minVal {
		return ValueBehavior{}, fmt.Errorf("%w: empty value behavior range in %q", errs.ErrInvalidPreamble, token)
	}

	switch kind {
	case "wrapping":
		return Wrapping(minVal, maxVal), nil
	case "bounded":
		return Bounded(minVal, maxVal), nil
	default:
		return ValueBehavior{}, fmt.Errorf("%w: unknown value behavior kind %q", errs.ErrInvalidPreamble, kind)
	}
}
