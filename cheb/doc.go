// Package cheb implements the Chebyshev polynomial kernel used by the weft
// format: series evaluation via the Clenshaw recurrence, least-squares
// coefficient fitting over irregular samples, and angle unwrapping for
// wrapping quantities.
//
// All series are truncated Chebyshev-T expansions Σ c_n·T_n(x) on the
// canonical interval x ∈ [-1, +1]. Callers are responsible for mapping time
// into that interval; the kernel never sees absolute instants.
package cheb
