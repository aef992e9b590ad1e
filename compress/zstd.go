package compress

// ZstdCompressor provides Zstandard compression for weftball archives.
//
// Zstd gives the best ratio of the available codecs on weft payloads
// (preamble text, zero padding in forty-eight hour sections, smooth
// coefficient byte patterns), making it the choice for long-term archive
// retention.
//
// Two implementations share this type: a pure-Go one (the default) and a
// cgo one built with the weft_cgo_zstd tag. Both produce standard zstd
// frames, so archives are interchangeable between builds.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
