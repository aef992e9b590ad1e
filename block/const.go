package block

import "github.com/arloliu/weft/endian"

// Two-byte block markers, read and written big-endian.
const (
	MarkerMonthly        uint16 = 0x0000 // MarkerMonthly identifies a monthly block.
	MarkerFortyEightHour uint16 = 0x0001 // MarkerFortyEightHour identifies a forty-eight hour block.
	MarkerSectionHeader  uint16 = 0x0002 // MarkerSectionHeader identifies a forty-eight hour section header.
	MarkerMultiYear      uint16 = 0x0003 // MarkerMultiYear identifies a multi-year block.
)

// Fixed byte sizes of the serialized structures.
const (
	MarkerSize = 2 // marker prefix shared by all block kinds

	// MultiYearHeaderSize covers start_year(2) + duration(2) + coef_count(4),
	// excluding the marker and the coefficient payload.
	MultiYearHeaderSize = 8

	// MonthlyHeaderSize covers year(2) + month(1) + day_count(1) + coef_count(4),
	// excluding the marker and the coefficient payload.
	MonthlyHeaderSize = 8

	// SectionHeaderPayloadSize covers start date(4) + end date(4) +
	// block_size(2) + block_count(4), excluding the marker.
	SectionHeaderPayloadSize = 14

	// FortyEightHourDateSize covers year(2) + month(1) + day(1) at the front
	// of a forty-eight hour block, excluding the marker.
	FortyEightHourDateSize = 4

	// CoefficientSize is the width of one IEEE 754 coefficient.
	CoefficientSize = 4

	// BlockAlignment is the byte alignment forty-eight hour block sizes are
	// rounded up to on write.
	BlockAlignment = 16
)

// engine is the byte order of the weft format. The format is big-endian on
// every platform; files round-trip bit-identically across architectures.
var engine = endian.GetBigEndianEngine()
