package cheb

import (
	"fmt"
	"math"

	"github.com/arloliu/weft/errs"
)

// Fit computes a least-squares fit of a truncated Chebyshev-T series of the
// given degree to irregularly spaced samples on [-1, +1].
//
// The fit solves the normal equations of the Chebyshev design matrix with
// Gaussian elimination under partial pivoting. For the sample counts the
// writer uses (dozens of samples, degree ≤ 20) this is numerically solid;
// the Chebyshev basis keeps the system far better conditioned than a raw
// power basis of the same degree.
//
// Parameters:
//   - xs: Sample abscissae in [-1, +1]
//   - ys: Sample ordinates, len(ys) == len(xs)
//   - degree: Series order; the result has exactly degree+1 coefficients
//
// Returns:
//   - []float64: Fitted coefficients, c_0 first
//   - error: errs.ErrInsufficientSamples if len(xs) < degree+1
func Fit(xs, ys []float64, degree int) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x values vs %d y values", errs.ErrInsufficientSamples, len(xs), len(ys))
	}

	n := degree + 1
	if len(xs) < n {
		return nil, fmt.Errorf("%w: need at least %d samples for degree %d, got %d",
			errs.ErrInsufficientSamples, n, degree, len(xs))
	}

	// Basis rows T_0(x_i)..T_degree(x_i) via the three-term recurrence.
	basis := make([][]float64, len(xs))
	for i, x := range xs {
		row := make([]float64, n)
		row[0] = 1.0
		if n > 1 {
			row[1] = x
		}
		for k := 2; k < n; k++ {
			row[k] = 2.0*x*row[k-1] - row[k-2]
		}
		basis[i] = row
	}

	// Normal equations: (BᵀB)·c = Bᵀy.
	ata := make([][]float64, n)
	aty := make([]float64, n)
	for j := 0; j < n; j++ {
		ata[j] = make([]float64, n)
	}
	for i := range basis {
		row := basis[i]
		y := ys[i]
		for j := 0; j < n; j++ {
			aty[j] += row[j] * y
			for k := j; k < n; k++ {
				ata[j][k] += row[j] * row[k]
			}
		}
	}
	// Mirror the upper triangle; the Gram matrix is symmetric.
	for j := 1; j < n; j++ {
		for k := 0; k < j; k++ {
			ata[j][k] = ata[k][j]
		}
	}

	coeffs, ok := solve(ata, aty)
	if !ok {
		return nil, fmt.Errorf("%w: degenerate sample distribution for degree %d", errs.ErrInsufficientSamples, degree)
	}

	return coeffs, nil
}

// solve performs in-place Gaussian elimination with partial pivoting on the
// augmented system a·x = b. Returns false if the matrix is singular.
func solve(a [][]float64, b []float64) ([]float64, bool) {
	n := len(b)
	for col := 0; col < n; col++ {
		// Partial pivot: largest magnitude entry in this column.
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if a[pivot][col] == 0 {
			return nil, false
		}
		if pivot != col {
			a[pivot], a[col] = a[col], a[pivot]
			b[pivot], b[col] = b[col], b[pivot]
		}

		inv := 1.0 / a[col][col]
		for row := col + 1; row < n; row++ {
			factor := a[row][col] * inv
			if factor == 0 {
				continue
			}
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	// Back substitution.
	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}

	return x, true
}
