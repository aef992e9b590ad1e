// Package errs defines the sentinel errors shared across the weft packages.
//
// All errors are wrapped with fmt.Errorf("%w: ...") at the point of failure
// so callers can match them with errors.Is while still seeing the detail in
// the message.
package errs

import "errors"

// Parse errors. All of these are fatal: a file that fails to parse cannot be
// partially used.
var (
	// ErrInvalidPreamble indicates the preamble line is missing, malformed,
	// or does not start with the "#weft!" magic.
	ErrInvalidPreamble = errors.New("invalid preamble")

	// ErrBadMarker indicates an unknown or misplaced two-byte block marker in
	// the stream, or a monthly block with an invalid month or day count.
	ErrBadMarker = errors.New("bad block marker")

	// ErrTruncatedBlock indicates the stream ended inside a block.
	ErrTruncatedBlock = errors.New("truncated block")

	// ErrSizeMismatch indicates a forty-eight hour block's serialized length
	// does not match the block_size declared by its section header.
	ErrSizeMismatch = errors.New("block size mismatch")

	// ErrBlockCountMismatch indicates a section header declared more (or
	// fewer) forty-eight hour blocks than actually follow it.
	ErrBlockCountMismatch = errors.New("block count mismatch")

	// ErrOutOfOrderBlock indicates a block of lower precision appeared after
	// a block of higher precision, violating the canonical file order.
	ErrOutOfOrderBlock = errors.New("block out of order")

	// ErrInvalidSectionHeader indicates a section header whose end date
	// precedes its start date or whose sizes are inconsistent.
	ErrInvalidSectionHeader = errors.New("invalid section header")
)

// Combine errors.
var (
	// ErrIncompatiblePreambles indicates two files whose preamble fields
	// (other than timespan and generation time) differ and therefore cannot
	// be combined. The wrapping message names the field and both values.
	ErrIncompatiblePreambles = errors.New("incompatible preambles")
)

// Read errors.
var (
	// ErrOutOfRange indicates no block covers the requested instant. The
	// reader never extrapolates beyond block coverage.
	ErrOutOfRange = errors.New("instant outside file coverage")

	// ErrUnknownReader indicates a reader-set lookup with an id that was
	// never registered.
	ErrUnknownReader = errors.New("unknown reader id")

	// ErrIDCollision indicates two distinct reader ids hashing to the same
	// 64-bit key.
	ErrIDCollision = errors.New("reader id hash collision")
)

// Write errors.
var (
	// ErrInsufficientSamples indicates a polynomial fit was requested with
	// fewer samples than degree+1.
	ErrInsufficientSamples = errors.New("insufficient samples for fit")

	// ErrEmptyDataSource indicates the data source supplied no timestamps.
	ErrEmptyDataSource = errors.New("empty data source")
)

// Archive errors.
var (
	// ErrUnknownCompression indicates an archive compression type that this
	// build does not support.
	ErrUnknownCompression = errors.New("unknown compression type")

	// ErrChecksumMismatch indicates an archive entry whose payload does not
	// hash to the checksum recorded in the manifest.
	ErrChecksumMismatch = errors.New("archive entry checksum mismatch")
)
