// Package compress provides compression codecs for weftball archive payloads.
//
// Weftball archives (.tar.gz, .tar.zst, .tar.lz4) wrap a tar stream in one
// of these codecs. The codec layer is independent of the weft block format:
// individual weft files are never compressed in place, only whole archives.
//
// Available codecs:
//   - NoOp: pass-through, for plain .tar archives
//   - Gzip: widest tooling compatibility, the default for .tar.gz
//   - Zstd: best ratio/speed trade-off (pure-Go by default; a cgo build of
//     the codec is available behind the weft_cgo_zstd build tag)
//   - S2: fastest, for local scratch archives
//   - LZ4: fast with broad ecosystem support
//
// Use GetCodec(format.CompressionType) for the shared built-in instances or
// CreateCodec to construct fresh ones.
package compress
