package weft

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/arloliu/weft/block"
	"github.com/arloliu/weft/errs"
)

// Combine splices multiple weft files into one.
//
// All inputs must agree on the identity preamble fields (id, data source,
// precision, quantity, value behavior, method); timespan and generation time
// are recomputed. Blocks are merged and re-sorted canonically, so combining
// {A, B} and {B, A} yields byte-identical output.
//
// customTimespan, when non-empty, overrides the inferred timespan label.
//
// Returns:
//   - *File: Combined file
//   - error: errs.ErrIncompatiblePreambles naming the differing field, or a
//     materialization error from a lazy input
func Combine(files []*File, customTimespan string) (*File, error) {
	return CombineAt(files, customTimespan, time.Now())
}

// CombineAt is Combine with an explicit generation time, for deterministic
// output.
func CombineAt(files []*File, customTimespan string, generatedAt time.Time) (*File, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no input files", errs.ErrEmptyDataSource)
	}

	first := files[0].Preamble
	for _, f := range files[1:] {
		if err := first.Compatible(f.Preamble); err != nil {
			return nil, err
		}
	}

	out := &File{}
	for _, f := range files {
		out.MultiYear = append(out.MultiYear, f.MultiYear...)
		out.Monthly = append(out.Monthly, f.Monthly...)
	}
	out.sortCanonical()
	out.MultiYear = dedupeMultiYear(out.MultiYear)
	out.Monthly = dedupeMonthly(out.Monthly)

	merged, err := mergeSections(files)
	if err != nil {
		return nil, err
	}
	out.Sections = merged

	timespan := customTimespan
	if timespan == "" {
		start, end, ok := out.Coverage()
		if ok {
			timespan = InferTimespan(start, end)
		} else {
			timespan = first.Timespan
		}
	}
	out.Preamble = NewPreamble(first.ID, first.DataSource, timespan, first.Quantity, first.Behavior, generatedAt)

	return out, nil
}

// mergeSections pools every forty-eight hour block from every input, sorts
// by center date, resolves duplicates, and regroups maximal contiguous
// day runs under fresh headers with recomputed block sizes and counts.
func mergeSections(files []*File) ([]*Section, error) {
	var all []block.FortyEightHourBlock
	for _, f := range files {
		for _, s := range f.Sections {
			blocks, err := s.Blocks()
			if err != nil {
				return nil, err
			}
			all = append(all, blocks...)
		}
	}
	if len(all) == 0 {
		return nil, nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		ci, cj := all[i].Center(), all[j].Center()
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}

		return preferBlock(all[i], all[j])
	})

	// Duplicate centers keep the preferred (first after sort) block.
	deduped := all[:1]
	for _, blk := range all[1:] {
		if blk.Center().Equal(deduped[len(deduped)-1].Center()) {
			continue
		}
		deduped = append(deduped, blk)
	}

	return groupIntoSections(deduped), nil
}

// preferBlock orders two blocks sharing a center date: more coefficients
// first, then smaller serialized bytes. Input order never participates, so
// the merge is commutative.
func preferBlock(a, b block.FortyEightHourBlock) bool {
	if len(a.Coeffs) != len(b.Coeffs) {
		return len(a.Coeffs) > len(b.Coeffs)
	}

	return bytes.Compare(a.Bytes(), b.Bytes()) < 0
}

// groupIntoSections splits a sorted run of blocks at day gaps and emits one
// section per contiguous run. blocks must be sorted with unique centers.
func groupIntoSections(blocks []block.FortyEightHourBlock) []*Section {
	var sections []*Section

	runStart := 0
	for i := 1; i <= len(blocks); i++ {
		if i < len(blocks) && blocks[i].Center().Equal(blocks[i-1].Center().Add(24*time.Hour)) {
			continue
		}
		sections = append(sections, newRunSection(blocks[runStart:i]))
		runStart = i
	}

	return sections
}

// newRunSection builds a section for one contiguous day run, computing the
// block size from the largest block in the run.
func newRunSection(run []block.FortyEightHourBlock) *Section {
	maxSize := 0
	for _, blk := range run {
		if s := blk.SerializedSize(); s > maxSize {
			maxSize = s
		}
	}
	blockSize := alignBlockSize(maxSize)

	first := run[0]
	endDate := run[len(run)-1].Center().Add(24 * time.Hour)
	header := block.FortyEightHourSectionHeader{
		StartYear:  first.Year,
		StartMonth: first.Month,
		StartDay:   first.Day,
		EndYear:    int16(endDate.Year()),
		EndMonth:   uint8(endDate.Month()),
		EndDay:     uint8(endDate.Day()),
		BlockSize:  uint16(blockSize),
		BlockCount: uint32(len(run)),
	}

	return NewSection(header, run)
}

// alignBlockSize rounds a serialized block length up to the format's block
// alignment.
func alignBlockSize(n int) int {
	if rem := n % block.BlockAlignment; rem != 0 {
		n += block.BlockAlignment - rem
	}

	return n
}

// dedupeMultiYear drops adjacent duplicates from a sorted slice: same start
// year and duration, keeping the block with more coefficients.
func dedupeMultiYear(blocks []block.MultiYearBlock) []block.MultiYearBlock {
	if len(blocks) < 2 {
		return blocks
	}

	out := blocks[:1]
	for _, blk := range blocks[1:] {
		last := &out[len(out)-1]
		if blk.StartYear == last.StartYear && blk.Duration == last.Duration {
			if len(blk.Coeffs) > len(last.Coeffs) ||
				(len(blk.Coeffs) == len(last.Coeffs) && bytes.Compare(blk.Bytes(), last.Bytes()) < 0) {
				*last = blk
			}
			continue
		}
		out = append(out, blk)
	}

	return out
}

// dedupeMonthly drops adjacent duplicates covering the same month.
func dedupeMonthly(blocks []block.MonthlyBlock) []block.MonthlyBlock {
	if len(blocks) < 2 {
		return blocks
	}

	out := blocks[:1]
	for _, blk := range blocks[1:] {
		last := &out[len(out)-1]
		if blk.Year == last.Year && blk.Month == last.Month {
			if blk.DayCount > last.DayCount ||
				(blk.DayCount == last.DayCount && len(blk.Coeffs) > len(last.Coeffs)) ||
				(blk.DayCount == last.DayCount && len(blk.Coeffs) == len(last.Coeffs) &&
					bytes.Compare(blk.Bytes(), last.Bytes()) < 0) {
				*last = blk
			}
			continue
		}
		out = append(out, blk)
	}

	return out
}
