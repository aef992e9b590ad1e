// Package block implements the block model and binary codec of the weft
// format.
//
// A weft file stores one scalar quantity as piecewise Chebyshev polynomial
// approximations at three time scales:
//
//   - MultiYearBlock: years to decades, lowest precision (marker 0x00 0x03)
//   - MonthlyBlock: one calendar month (marker 0x00 0x00)
//   - FortyEightHourBlock: 48 hours centered on one midnight (marker 0x00 0x01)
//
// Forty-eight hour blocks are grouped under a FortyEightHourSectionHeader
// (marker 0x00 0x02) which fixes their serialized size and count, making the
// run seekable without decoding each block.
//
// All integers are big-endian two's-complement and all coefficients are
// big-endian IEEE 754 32-bit floats; serialized blocks are 16-bit aligned.
// Every block exposes its half-open coverage interval [start, end) and an
// Evaluate method that affine-maps an instant into the canonical Chebyshev
// interval [-1, +1] over that coverage.
package block
