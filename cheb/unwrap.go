package cheb

// UnwrapAngles removes range discontinuities from a sequence of wrapping
// values so it can be fitted as a continuous signal.
//
// Given a wrapping domain [min, max) of span S = max-min, the walk adds ±S
// whenever consecutive values jump by more than S/2. The inverse is applied
// implicitly on read by reducing the evaluated value modulo S back into the
// domain.
//
// Works for any wrapping range: longitude in [0,360), right ascension in
// [0,24), centered ranges like [-180,180).
//
// Parameters:
//   - values: Sample sequence, possibly containing wrap discontinuities
//   - minVal: Lower edge of the wrapping domain
//   - maxVal: Upper edge of the wrapping domain
//
// Returns:
//   - []float64: Continuous sequence; the first element is unchanged
func UnwrapAngles(values []float64, minVal, maxVal float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	span := maxVal - minVal
	half := span / 2.0

	unwrapped := make([]float64, len(values))
	unwrapped[0] = values[0]

	for i := 1; i < len(values); i++ {
		diff := values[i] - values[i-1]
		if diff > half {
			diff -= span
		} else if diff < -half {
			diff += span
		}
		unwrapped[i] = unwrapped[i-1] + diff
	}

	return unwrapped
}
