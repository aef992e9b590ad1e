package cheb

// Evaluate computes Σ c_n·T_n(x) using the Clenshaw recurrence.
//
// The input x must lie in [-1, +1]; callers clamp before invoking. The
// function never fails: an empty coefficient slice evaluates to 0.
//
// Coefficients are stored as float32 in the file format but the recurrence
// accumulates in float64 and rounds every product explicitly, so no fused
// multiply-add can change the result and results are bit-identical across
// platforms with IEEE 754 arithmetic.
//
// Parameters:
//   - coeffs: Chebyshev-T series coefficients, c_0 first
//   - x: Evaluation point in [-1, +1]
//
// Returns:
//   - float64: The series value at x
func Evaluate(coeffs []float32, x float64) float64 {
	switch len(coeffs) {
	case 0:
		return 0.0
	case 1:
		return float64(coeffs[0])
	}

	// Clenshaw: b_k = c_k + 2x·b_{k+1} - b_{k+2}, result c_0 + x·b_1 - b_2.
	var b1, b2 float64
	for k := len(coeffs) - 1; k >= 1; k-- {
		b1, b2 = float64(coeffs[k])+float64(2.0*x*b1)-b2, b1
	}

	return float64(coeffs[0]) + float64(x*b1) - b2
}

// EvaluateSeries is the float64-coefficient variant of Evaluate, used during
// fitting before coefficients are narrowed to the file's 32-bit width.
func EvaluateSeries(coeffs []float64, x float64) float64 {
	switch len(coeffs) {
	case 0:
		return 0.0
	case 1:
		return coeffs[0]
	}

	var b1, b2 float64
	for k := len(coeffs) - 1; k >= 1; k-- {
		b1, b2 = coeffs[k]+2.0*x*b1-b2, b1
	}

	return coeffs[0] + x*b1 - b2
}

// Clamp maps x into [-1, +1]. Block evaluation uses it to absorb the
// floating-point drift of affine time mapping at coverage boundaries.
func Clamp(x float64) float64 {
	if x < -1.0 {
		return -1.0
	}
	if x > 1.0 {
		return 1.0
	}

	return x
}
