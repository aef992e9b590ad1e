// Package weft implements the Weft binary ephemeris format: a self-contained
// container for one scalar astronomical quantity as a function of time,
// stored as piecewise Chebyshev polynomial approximations at three time
// scales and evaluated at arbitrary instants with tunable precision.
//
// # File anatomy
//
// A weft file is a single UTF-8 preamble line followed by binary blocks in
// increasing precision order: multi-year blocks, monthly blocks, then
// forty-eight hour sections. All integers are big-endian two's-complement
// and coefficients are big-endian IEEE 754 float32, so files round-trip
// bit-identically across platforms. Truncating a file at a block boundary
// before its first forty-eight hour section, or between two sections, yields
// a still-valid file of lower maximum precision; a cut inside a section's run
// of blocks fails to parse with errs.ErrBlockCountMismatch.
//
// # Reading
//
//	data, _ := os.ReadFile("mars_longitude.weft")
//	f, err := weft.Parse(data)
//	if err != nil {
//	    return err
//	}
//	reader, _ := weft.NewReader(f)
//	value, err := reader.ValueAt(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
//
// Lookup is priority-ordered: the reader tries forty-eight hour blocks
// first, then monthly, then multi-year, and blends linearly inside the
// 24-hour overlap of adjacent forty-eight hour blocks. ParseLazy defers
// decoding forty-eight hour runs until first touch, which keeps opening
// large files cheap.
//
// # Writing
//
//	cfg := weft.DefaultConfig("mars", "jpl:horizons", "longitude", weft.Wrapping(0, 360))
//	writer, _ := weft.NewWriter(cfg)
//	f, err := writer.Generate(src)
//
// The writer samples a source.DataSource per candidate block, honors the
// quantity's value behavior (unwrapping wrapping angles before fitting),
// and skips blocks whose data coverage falls under the threshold.
// RecommendedConfig picks enabled block kinds from the source's span and
// sample density.
//
// # Package structure
//
//   - cheb: Chebyshev evaluation, least-squares fitting, angle unwrapping
//   - block: block model and binary codec
//   - source: data-source contract and adapters
//   - weftball: tar archives bundling several weft files
//   - compress: codecs for weftball archives
package weft
