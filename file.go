package weft

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/arloliu/weft/block"
	"github.com/arloliu/weft/endian"
	"github.com/arloliu/weft/errs"
	"github.com/arloliu/weft/internal/pool"
)

var engine = endian.GetBigEndianEngine()

// File is a parsed or generated weft file: one preamble plus the block
// sequence in canonical precision order. Once parsed a File is immutable;
// any number of Readers may share it.
type File struct {
	// Preamble is the single header line.
	Preamble Preamble
	// MultiYear holds the multi-year blocks, lowest precision first in file
	// order.
	MultiYear []block.MultiYearBlock
	// Monthly holds the monthly blocks.
	Monthly []block.MonthlyBlock
	// Sections holds the forty-eight hour sections in file order. Each
	// section owns its header and its run of blocks, possibly lazily
	// materialized.
	Sections []*Section
}

// Section is one forty-eight hour section: a header plus its contiguous run
// of blocks. When the file was parsed lazily the run stays as raw bytes
// until first touch; materialization is idempotent and safe for concurrent
// readers sharing the File.
type Section struct {
	// Header declares the run's date range, block size, and block count.
	Header block.FortyEightHourSectionHeader

	once   sync.Once
	raw    []byte // serialized run, BlockCount x BlockSize bytes; nil once materialized eagerly
	blocks []block.FortyEightHourBlock
	err    error
}

// NewSection builds an already-materialized section from generated blocks.
func NewSection(header block.FortyEightHourSectionHeader, blocks []block.FortyEightHourBlock) *Section {
	s := &Section{Header: header, blocks: blocks}
	s.once.Do(func() {})

	return s
}

// Blocks returns the section's blocks, decoding the raw run on first call.
//
// Returns:
//   - []block.FortyEightHourBlock: The run in chronological order
//   - error: Decode error from the deferred parse, stable across calls
func (s *Section) Blocks() ([]block.FortyEightHourBlock, error) {
	s.once.Do(func() {
		s.blocks, s.err = s.decodeRun()
		s.raw = nil
	})

	return s.blocks, s.err
}

// Block returns the i-th block of the run.
func (s *Section) Block(i int) (block.FortyEightHourBlock, error) {
	blocks, err := s.Blocks()
	if err != nil {
		return block.FortyEightHourBlock{}, err
	}
	if i < 0 || i >= len(blocks) {
		return block.FortyEightHourBlock{}, fmt.Errorf("%w: block index %d outside section of %d blocks",
			errs.ErrOutOfRange, i, len(blocks))
	}

	return blocks[i], nil
}

// decodeRun parses the deferred byte run into blocks and verifies the
// chronological ordering the format requires inside a section.
func (s *Section) decodeRun() ([]block.FortyEightHourBlock, error) {
	size := int(s.Header.BlockSize)
	count := int(s.Header.BlockCount)
	blocks := make([]block.FortyEightHourBlock, 0, count)

	data := s.raw
	for i := 0; i < count; i++ {
		if len(data) < size {
			return nil, fmt.Errorf("%w: section block %d/%d", errs.ErrTruncatedBlock, i+1, count)
		}
		marker := engine.Uint16(data)
		if marker != block.MarkerFortyEightHour {
			return nil, fmt.Errorf("%w: expected forty-eight hour marker inside section, got 0x%04x",
				errs.ErrBadMarker, marker)
		}
		blk, _, err := block.ParseFortyEightHourBlock(data[block.MarkerSize:], s.Header)
		if err != nil {
			return nil, err
		}
		if i > 0 && !blocks[i-1].Center().Before(blk.Center()) {
			return nil, fmt.Errorf("%w: section block centers not strictly increasing at %s",
				errs.ErrOutOfOrderBlock, blk.Center().Format(time.DateOnly))
		}
		blocks = append(blocks, blk)
		data = data[size:]
	}

	return blocks, nil
}

// materialized reports whether the run has been decoded (or never was lazy).
func (s *Section) materialized() bool {
	return s.raw == nil
}

// Parse decodes a complete weft file from bytes, materializing every block
// eagerly. The input buffer is not retained.
//
// Returns:
//   - *File: Decoded file
//   - error: errs.ErrInvalidPreamble, errs.ErrBadMarker, errs.ErrTruncatedBlock,
//     errs.ErrBlockCountMismatch, or errs.ErrOutOfOrderBlock
func Parse(data []byte) (*File, error) {
	return parse(data, false)
}

// ParseLazy decodes the preamble and block index but defers decoding the
// forty-eight hour runs until a Reader touches them. The section runs keep
// references into data, so the caller must not modify the buffer for the
// lifetime of the File; a memory-mapped region must outlive it.
func ParseLazy(data []byte) (*File, error) {
	return parse(data, true)
}

// parse walks the block stream. Block kinds must
// appear in non-decreasing precision order (multi-year, monthly, sections);
// forty-eight hour blocks are only legal inside the run declared by the most
// recent section header.
func parse(data []byte, lazy bool) (*File, error) {
	nl := bytes.IndexByte(data, '\n')
	if nl < 0 || nl > maxPreambleLen {
		return nil, fmt.Errorf("%w: missing newline-terminated preamble", errs.ErrInvalidPreamble)
	}
	preamble, err := ParsePreamble(string(data[:nl]))
	if err != nil {
		return nil, err
	}

	f := &File{Preamble: preamble}
	data = data[nl+1:]

	// Precision stages: 0 = multi-year, 1 = monthly, 2 = sections. A marker
	// belonging to an earlier stage than the current one is out of order.
	stage := 0
	for len(data) > 0 {
		if len(data) < block.MarkerSize {
			return nil, fmt.Errorf("%w: dangling byte after last block", errs.ErrTruncatedBlock)
		}
		marker := engine.Uint16(data)
		data = data[block.MarkerSize:]

		switch marker {
		case block.MarkerMultiYear:
			if stage > 0 {
				return nil, fmt.Errorf("%w: multi-year block after higher-precision blocks", errs.ErrOutOfOrderBlock)
			}
			blk, n, err := block.ParseMultiYearBlock(data)
			if err != nil {
				return nil, err
			}
			f.MultiYear = append(f.MultiYear, blk)
			data = data[n:]

		case block.MarkerMonthly:
			if stage > 1 {
				return nil, fmt.Errorf("%w: monthly block after forty-eight hour section", errs.ErrOutOfOrderBlock)
			}
			stage = 1
			blk, n, err := block.ParseMonthlyBlock(data)
			if err != nil {
				return nil, err
			}
			f.Monthly = append(f.Monthly, blk)
			data = data[n:]

		case block.MarkerSectionHeader:
			stage = 2
			header, n, err := block.ParseSectionHeader(data)
			if err != nil {
				return nil, err
			}
			data = data[n:]

			run, rest, err := sliceRun(data, header)
			if err != nil {
				return nil, err
			}
			f.Sections = append(f.Sections, &Section{Header: header, raw: run})
			data = rest

		case block.MarkerFortyEightHour:
			return nil, fmt.Errorf("%w: forty-eight hour block outside a section", errs.ErrBadMarker)

		default:
			return nil, fmt.Errorf("%w: 0x%04x", errs.ErrBadMarker, marker)
		}
	}

	if !lazy {
		for _, s := range f.Sections {
			if _, err := s.Blocks(); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// sliceRun carves the BlockCount x BlockSize byte run of a section out of
// data, verifying that exactly BlockCount forty-eight hour blocks are
// present before any other marker or end of input.
func sliceRun(data []byte, header block.FortyEightHourSectionHeader) (run, rest []byte, err error) {
	size := int(header.BlockSize)
	count := int(header.BlockCount)

	for i := 0; i < count; i++ {
		off := i * size
		if len(data) < off+block.MarkerSize {
			return nil, nil, fmt.Errorf("%w: expected %d, got %d", errs.ErrBlockCountMismatch, count, i)
		}
		marker := engine.Uint16(data[off:])
		if marker != block.MarkerFortyEightHour {
			return nil, nil, fmt.Errorf("%w: expected %d, got %d", errs.ErrBlockCountMismatch, count, i)
		}
		if len(data) < off+size {
			return nil, nil, fmt.Errorf("%w: section block %d/%d", errs.ErrTruncatedBlock, i+1, count)
		}
	}

	total := count * size

	return data[:total], data[total:], nil
}

// Bytes serializes the file in canonical precision order: preamble, all
// multi-year blocks, all monthly blocks, then each section header followed
// by its padded run.
//
// Returns:
//   - []byte: Serialized file
//   - error: errs.ErrSizeMismatch if a block does not fit its section's
//     declared block size
func (f *File) Bytes() ([]byte, error) {
	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)

	buf.B = append(buf.B, f.Preamble.String()...)
	for _, blk := range f.MultiYear {
		buf.B = append(buf.B, blk.Bytes()...)
	}
	for _, blk := range f.Monthly {
		buf.B = append(buf.B, blk.Bytes()...)
	}
	for _, s := range f.Sections {
		blocks, err := s.Blocks()
		if err != nil {
			return nil, err
		}
		buf.B = append(buf.B, s.Header.Bytes()...)
		for _, blk := range blocks {
			padded, err := blk.PaddedBytes(int(s.Header.BlockSize))
			if err != nil {
				return nil, err
			}
			buf.B = append(buf.B, padded...)
		}
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// Coverage returns the earliest start and latest end over all blocks in the
// file. ok is false when the file has no blocks.
func (f *File) Coverage() (start, end time.Time, ok bool) {
	extend := func(s, e time.Time) {
		if !ok {
			start, end = s, e
			ok = true
			return
		}
		if s.Before(start) {
			start = s
		}
		if e.After(end) {
			end = e
		}
	}

	for _, blk := range f.MultiYear {
		s, e := blk.Coverage()
		extend(s, e)
	}
	for _, blk := range f.Monthly {
		s, e := blk.Coverage()
		extend(s, e)
	}
	for _, sec := range f.Sections {
		// Header dates bound the runs; no need to materialize lazy blocks.
		extend(sec.Header.StartDate().Add(-24*time.Hour), sec.Header.EndDate())
	}

	return start, end, ok
}

// BlockCount returns the total number of polynomial blocks, section headers
// excluded.
func (f *File) BlockCount() int {
	n := len(f.MultiYear) + len(f.Monthly)
	for _, s := range f.Sections {
		n += int(s.Header.BlockCount)
	}

	return n
}

// sortCanonical orders multi-year and monthly blocks chronologically. The
// format permits them in any order; serializing after a sort makes output
// deterministic, which Combine relies on.
func (f *File) sortCanonical() {
	sort.SliceStable(f.MultiYear, func(i, j int) bool {
		a, b := f.MultiYear[i], f.MultiYear[j]
		if a.StartYear != b.StartYear {
			return a.StartYear < b.StartYear
		}

		return a.Duration < b.Duration
	})
	sort.SliceStable(f.Monthly, func(i, j int) bool {
		a, b := f.Monthly[i], f.Monthly[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}

		return a.Month < b.Month
	})
}
