package weft

import (
	"fmt"
	"iter"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/arloliu/weft/block"
	"github.com/arloliu/weft/errs"
	"github.com/arloliu/weft/format"
	"github.com/arloliu/weft/internal/options"
)

// Reader evaluates a File at arbitrary instants.
//
// Lookup is priority-ordered: forty-eight hour blocks first, then monthly,
// then multi-year. Inside the 24-hour overlap of two adjacent forty-eight
// hour blocks the result is a linear blend of both.
//
// A Reader is single-threaded by contract. Concurrent use needs one Reader
// per goroutine; they may share the same File, which is immutable after
// parse (lazy section materialization is internally synchronized).
type Reader struct {
	file   *File
	logger *slog.Logger
}

// ReaderOption configures a Reader.
type ReaderOption = options.Option[*Reader]

// WithReaderLogger injects a logger for block-selection tracing. The reader
// logs, at debug level, which block served each lookup and the contributing
// center dates and weights of blends.
func WithReaderLogger(logger *slog.Logger) ReaderOption {
	return options.NoError(func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	})
}

// NewReader creates a Reader over a parsed file.
func NewReader(file *File, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{
		file:   file,
		logger: slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// File returns the underlying file.
func (r *Reader) File() *File { return r.file }

// ValueAt resolves the stored quantity at instant t.
//
// Returns:
//   - float64: The value with the file's value-behavior post-processing
//     applied (wrapping reduction or bound clamping)
//   - error: errs.ErrOutOfRange when no block covers t
func (r *Reader) ValueAt(t time.Time) (float64, error) {
	t = t.UTC()
	behavior := r.file.Preamble.Behavior

	if value, ok, err := r.fortyEightHourValueAt(t, behavior); err != nil || ok {
		return value, err
	}

	for _, blk := range r.file.Monthly {
		if blk.Covers(t) {
			r.logger.Debug("monthly block selected",
				"instant", t, "year", blk.Year, "month", blk.Month)

			return behavior.Apply(blk.Evaluate(t)), nil
		}
	}

	for _, blk := range r.file.MultiYear {
		if blk.Covers(t) {
			r.logger.Debug("multi-year block selected",
				"instant", t, "start_year", blk.StartYear, "duration", blk.Duration)

			return behavior.Apply(blk.Evaluate(t)), nil
		}
	}

	return 0, fmt.Errorf("%w: %s", errs.ErrOutOfRange, t.Format(time.RFC3339))
}

// RangeValue is one element of a ValuesInRange iteration.
type RangeValue struct {
	// Value is the evaluated quantity; meaningless when Err is non-nil.
	Value float64
	// Err is errs.ErrOutOfRange for instants outside file coverage.
	Err error
}

// ValuesInRange iterates the quantity from start to end inclusive at the
// given step. Instants outside coverage yield a RangeValue carrying
// errs.ErrOutOfRange rather than terminating the sweep. Dropping the
// iterator cancels the sweep.
func (r *Reader) ValuesInRange(start, end time.Time, step time.Duration) iter.Seq2[time.Time, RangeValue] {
	return func(yield func(time.Time, RangeValue) bool) {
		if step <= 0 {
			return
		}
		for t := start; !t.After(end); t = t.Add(step) {
			value, err := r.ValueAt(t)
			if !yield(t, RangeValue{Value: value, Err: err}) {
				return
			}
		}
	}
}

// fortyEightHourValueAt tries the highest-precision path. ok is false when
// no forty-eight hour block covers t.
func (r *Reader) fortyEightHourValueAt(t time.Time, behavior ValueBehavior) (float64, bool, error) {
	covering, err := r.coveringFortyEightHour(t)
	if err != nil {
		return 0, false, err
	}

	switch len(covering) {
	case 0:
		return 0, false, nil
	case 1:
		blk := covering[0]
		r.logger.Debug("forty-eight hour block selected",
			"instant", t, "center", blk.Center().Format(time.DateOnly))

		return behavior.Apply(blk.Evaluate(t)), true, nil
	default:
		left, right := covering[0], covering[1]
		value := r.blend(t, left, right, behavior)

		return value, true, nil
	}
}

// coveringFortyEightHour collects the forty-eight hour blocks covering t in
// center order. At most two blocks can cover any instant: their centers are
// the two midnights inside (t-24h, t+24h].
func (r *Reader) coveringFortyEightHour(t time.Time) ([]block.FortyEightHourBlock, error) {
	var covering []block.FortyEightHourBlock

	for _, s := range r.file.Sections {
		if !s.Header.ContainsInstant(t) {
			continue
		}
		blocks, err := s.Blocks()
		if err != nil {
			return nil, err
		}

		// Binary search: first block whose center is after t, then inspect
		// the neighbors whose 48h windows can still contain t.
		idx := sort.Search(len(blocks), func(i int) bool {
			return blocks[i].Center().After(t)
		})
		for i := max(idx-1, 0); i < min(idx+1, len(blocks)); i++ {
			if blocks[i].Covers(t) {
				covering = append(covering, blocks[i])
			}
		}
	}

	// Adjacent sections can each contribute a block at a section boundary.
	sort.SliceStable(covering, func(i, j int) bool {
		return covering[i].Center().Before(covering[j].Center())
	})
	// Drop duplicate centers from overlapping section ranges.
	deduped := covering[:0]
	for i, blk := range covering {
		if i > 0 && blk.Center().Equal(deduped[len(deduped)-1].Center()) {
			continue
		}
		deduped = append(deduped, blk)
	}

	return deduped, nil
}

// blend linearly mixes two adjacent forty-eight hour blocks inside their
// 24-hour overlap. The weight of the left block falls from 1 at the start of
// the overlap to 0 at its end.
//
// For wrapping behavior the blend runs on an unwrapped pair: the right value
// is shifted by whole spans to the representative closest to the left value,
// then the mix is reduced back into the wrapping range.
func (r *Reader) blend(t time.Time, left, right block.FortyEightHourBlock, behavior ValueBehavior) float64 {
	wLeft := right.Center().Sub(t).Seconds() / (24 * time.Hour).Seconds()
	wRight := 1.0 - wLeft

	vLeft := left.Evaluate(t)
	vRight := right.Evaluate(t)

	if behavior.Kind == format.BehaviorWrapping {
		span := behavior.Span()
		vRight -= span * math.Round((vRight-vLeft)/span)
	}

	r.logger.Debug("forty-eight hour blend",
		"instant", t,
		"left_center", left.Center().Format(time.DateOnly),
		"right_center", right.Center().Format(time.DateOnly),
		"left_weight", wLeft,
		"right_weight", wRight)

	return behavior.Apply(wLeft*vLeft + wRight*vRight)
}
