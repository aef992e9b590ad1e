package block

import (
	"fmt"
	"time"

	"github.com/arloliu/weft/errs"
)

// FortyEightHourSectionHeader precedes a run of forty-eight hour blocks. It
// carries no polynomial data; it fixes the serialized byte size and the exact
// count of the blocks that follow, which makes the run seekable and lets a
// reader defer decoding individual blocks.
//
// The date range is [start, end) with end exclusive: the day after the last
// block's center date.
type FortyEightHourSectionHeader struct {
	StartYear  int16
	StartMonth uint8
	StartDay   uint8
	EndYear    int16
	EndMonth   uint8
	EndDay     uint8
	// BlockSize is the serialized length in bytes of every block in the run,
	// marker and zero padding included.
	BlockSize uint16
	// BlockCount is the exact number of blocks following this header.
	BlockCount uint32
}

// Marker returns MarkerSectionHeader.
func (h FortyEightHourSectionHeader) Marker() uint16 { return MarkerSectionHeader }

// StartDate returns midnight UTC of the first covered day.
func (h FortyEightHourSectionHeader) StartDate() time.Time {
	return dateUTC(int(h.StartYear), int(h.StartMonth), int(h.StartDay))
}

// EndDate returns midnight UTC of the exclusive end day.
func (h FortyEightHourSectionHeader) EndDate() time.Time {
	return dateUTC(int(h.EndYear), int(h.EndMonth), int(h.EndDay))
}

// ContainsInstant reports whether t may be covered by a block in this run.
// The window extends one day left of the start date because the first block's
// coverage reaches 24 hours before its center.
func (h FortyEightHourSectionHeader) ContainsInstant(t time.Time) bool {
	lo := h.StartDate().Add(-24 * time.Hour)
	hi := h.EndDate()

	return !t.Before(lo) && t.Before(hi)
}

// CoefficientCapacity returns how many coefficients fit in BlockSize.
func (h FortyEightHourSectionHeader) CoefficientCapacity() int {
	return (int(h.BlockSize) - MarkerSize - FortyEightHourDateSize) / CoefficientSize
}

// Validate checks the header's internal consistency.
func (h FortyEightHourSectionHeader) Validate() error {
	if h.EndDate().Before(h.StartDate()) {
		return fmt.Errorf("%w: end date %s before start date %s",
			errs.ErrInvalidSectionHeader, h.EndDate().Format(time.DateOnly), h.StartDate().Format(time.DateOnly))
	}
	if h.CoefficientCapacity() < 1 {
		return fmt.Errorf("%w: block size %d cannot hold a coefficient",
			errs.ErrInvalidSectionHeader, h.BlockSize)
	}

	return nil
}

// Bytes serializes the header, marker included.
//
// Layout: marker(2) start y(i16) m(u8) d(u8) end y(i16) m(u8) d(u8)
// block_size(u16) block_count(u32).
func (h FortyEightHourSectionHeader) Bytes() []byte {
	buf := make([]byte, 0, MarkerSize+SectionHeaderPayloadSize)
	buf = engine.AppendUint16(buf, MarkerSectionHeader)
	buf = engine.AppendUint16(buf, uint16(h.StartYear))
	buf = append(buf, h.StartMonth, h.StartDay)
	buf = engine.AppendUint16(buf, uint16(h.EndYear))
	buf = append(buf, h.EndMonth, h.EndDay)
	buf = engine.AppendUint16(buf, h.BlockSize)
	buf = engine.AppendUint32(buf, h.BlockCount)

	return buf
}

// ParseSectionHeader decodes a section header from data positioned just after
// the marker.
//
// Parameters:
//   - data: Byte slice starting at the header payload
//
// Returns:
//   - FortyEightHourSectionHeader: Decoded header
//   - int: Bytes consumed from data
//   - error: errs.ErrTruncatedBlock or errs.ErrInvalidSectionHeader
func ParseSectionHeader(data []byte) (FortyEightHourSectionHeader, int, error) {
	if len(data) < SectionHeaderPayloadSize {
		return FortyEightHourSectionHeader{}, 0, fmt.Errorf("%w: section header needs %d bytes, have %d",
			errs.ErrTruncatedBlock, SectionHeaderPayloadSize, len(data))
	}

	h := FortyEightHourSectionHeader{
		StartYear:  int16(engine.Uint16(data[0:2])),
		StartMonth: data[2],
		StartDay:   data[3],
		EndYear:    int16(engine.Uint16(data[4:6])),
		EndMonth:   data[6],
		EndDay:     data[7],
		BlockSize:  engine.Uint16(data[8:10]),
		BlockCount: engine.Uint32(data[10:14]),
	}
	if err := h.Validate(); err != nil {
		return FortyEightHourSectionHeader{}, 0, err
	}

	return h, SectionHeaderPayloadSize, nil
}
