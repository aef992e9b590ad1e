package format

type (
	BehaviorKind    uint8
	CompressionType uint8
)

const (
	BehaviorUnbounded BehaviorKind = 0x0 // BehaviorUnbounded represents raw values with no range semantics.
	BehaviorWrapping  BehaviorKind = 0x1 // BehaviorWrapping represents values that wrap modulo their range, e.g. longitude in [0,360).
	BehaviorBounded   BehaviorKind = 0x2 // BehaviorBounded represents values clamped to a closed range, e.g. latitude in [-90,90].

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionGzip CompressionType = 0x2 // CompressionGzip represents gzip compression.
	CompressionZstd CompressionType = 0x3 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x4 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x5 // CompressionLZ4 represents LZ4 compression.
)

func (b BehaviorKind) String() string {
	switch b {
	case BehaviorUnbounded:
		return "unbounded"
	case BehaviorWrapping:
		return "wrapping"
	case BehaviorBounded:
		return "bounded"
	default:
		return "unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionGzip:
		return "Gzip"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
