package weft

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/arloliu/weft/block"
	"github.com/arloliu/weft/cheb"
	"github.com/arloliu/weft/errs"
	"github.com/arloliu/weft/format"
	"github.com/arloliu/weft/internal/options"
	"github.com/arloliu/weft/source"
)

// Writer generates weft files from a data source.
//
// Generation samples the source per candidate block, fits a Chebyshev series
// per kind-specific degree, and skips blocks whose data coverage falls under
// the threshold. Skipped blocks are logged, never invented.
type Writer struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*Writer]

// WithWriterLogger injects a logger for coverage decisions and skipped
// blocks.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return options.NoError(func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	})
}

// WithClock overrides the generation timestamp source, for deterministic
// preambles in tests.
func WithClock(now func() time.Time) WriterOption {
	return options.NoError(func(w *Writer) {
		if now != nil {
			w.now = now
		}
	})
}

// NewWriter creates a Writer with the given configuration. Zero-valued
// sample counts, degrees, and spans are filled with defaults.
func NewWriter(cfg Config, opts ...WriterOption) (*Writer, error) {
	cfg.normalize()
	w := &Writer{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}

	return w, nil
}

// Generate produces a File from the data source.
//
// Returns:
//   - *File: The generated file in canonical block order
//   - error: errs.ErrEmptyDataSource when the source has no timestamps, or
//     a fatal sampling error surfaced from the source
func (w *Writer) Generate(src source.DataSource) (*File, error) {
	timestamps := slices.Collect(src.Timestamps())
	if len(timestamps) == 0 {
		return nil, errs.ErrEmptyDataSource
	}

	start, end := src.Start().UTC(), src.End().UTC()
	f := &File{}

	if w.cfg.MultiYear.Enabled {
		blocks, err := w.generateMultiYear(src, timestamps, start, end)
		if err != nil {
			return nil, err
		}
		f.MultiYear = blocks
	}

	if w.cfg.Monthly.Enabled {
		blocks, err := w.generateMonthly(src, timestamps, start, end)
		if err != nil {
			return nil, err
		}
		f.Monthly = blocks
	}

	if w.cfg.FortyEightHour.Enabled {
		sections, err := w.generateFortyEightHour(src, timestamps, start, end)
		if err != nil {
			return nil, err
		}
		f.Sections = sections
	}

	f.sortCanonical()
	if f.BlockCount() == 0 {
		w.logger.Warn("no blocks generated", "start", start, "end", end)
	}

	timespan := w.cfg.CustomTimespan
	if timespan == "" {
		timespan = InferTimespan(start, end)
	}
	f.Preamble = NewPreamble(w.cfg.ID, w.cfg.DataSource, timespan, w.cfg.Quantity, w.cfg.Behavior, w.now())

	return f, nil
}

// Write generates a file and serializes it to out.
//
// Returns:
//   - int64: Bytes written
//   - error: Generation error or a propagated write error
func (w *Writer) Write(src source.DataSource, out io.Writer) (int64, error) {
	f, err := w.Generate(src)
	if err != nil {
		return 0, err
	}
	data, err := f.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := out.Write(data)

	return int64(n), err
}

// generateMultiYear emits one block per span-aligned year range whose data
// coverage clears the threshold.
func (w *Writer) generateMultiYear(src source.DataSource, timestamps []time.Time, start, end time.Time) ([]block.MultiYearBlock, error) {
	cfg := w.cfg.MultiYear
	var blocks []block.MultiYearBlock

	firstYear := alignYear(start.Year(), cfg.SpanYears)
	for year := firstYear; year <= end.Year(); year += cfg.SpanYears {
		covStart := dateUTC(year, 1, 1)
		covEnd := dateUTC(year+cfg.SpanYears, 1, 1)

		stats := analyzeCoverage(timestamps, covStart, covEnd)
		ratio := stats.ratio(covEnd.Sub(covStart))
		if ratio < CoverageThreshold {
			w.logger.Info("skipping multi-year block",
				"start_year", year, "span", cfg.SpanYears, "coverage", ratio)
			continue
		}

		coeffs, err := w.fitCoeffs(src, stats.first, stats.last, covStart, covEnd, cfg.SampleCount, cfg.PolynomialDegree)
		if err != nil {
			if w.skippableFitError(err, "multi-year", covStart) {
				continue
			}

			return nil, err
		}
		blocks = append(blocks, block.MultiYearBlock{
			StartYear: int16(year),
			Duration:  uint16(cfg.SpanYears),
			Coeffs:    coeffs,
		})
	}

	return blocks, nil
}

// generateMonthly emits one block per calendar month clearing the coverage
// threshold, plus (when permitted) a partial block for the month containing
// the end of the range.
func (w *Writer) generateMonthly(src source.DataSource, timestamps []time.Time, start, end time.Time) ([]block.MonthlyBlock, error) {
	cfg := w.cfg.Monthly
	var blocks []block.MonthlyBlock

	for month := dateUTC(start.Year(), int(start.Month()), 1); !month.After(end); month = month.AddDate(0, 1, 0) {
		dayCount := block.DaysInMonth(month.Year(), int(month.Month()))
		covEnd := month.AddDate(0, 1, 0)

		stats := analyzeCoverage(timestamps, month, covEnd)
		ratio := stats.ratio(covEnd.Sub(month))
		if ratio < CoverageThreshold {
			partial, ok := w.partialMonth(month, stats, start, end)
			if !ok {
				w.logger.Info("skipping monthly block",
					"year", month.Year(), "month", int(month.Month()), "coverage", ratio)
				continue
			}
			dayCount = partial
			covEnd = month.Add(time.Duration(dayCount) * 24 * time.Hour)
		}

		coeffs, err := w.fitCoeffs(src, stats.first, stats.last, month, covEnd, cfg.SampleCount, cfg.PolynomialDegree)
		if err != nil {
			if w.skippableFitError(err, "monthly", month) {
				continue
			}

			return nil, err
		}
		blocks = append(blocks, block.MonthlyBlock{
			Year:     int16(month.Year()),
			Month:    uint8(month.Month()),
			DayCount: uint8(dayCount),
			Coeffs:   coeffs,
		})
	}

	return blocks, nil
}

// partialMonth decides whether a month failing the full-month threshold may
// be emitted as a short day-count block. Only the month at the end of the
// data range qualifies: monthly coverage is anchored at day one, so a
// sparse start-boundary month cannot be clipped and is skipped instead.
func (w *Writer) partialMonth(month time.Time, stats coverageStats, start, end time.Time) (int, bool) {
	if !w.cfg.Monthly.AllowPartialMonths || stats.count == 0 {
		return 0, false
	}
	// The end of the range must fall inside this month, and the month must
	// start inside the covered range.
	if month.Before(start) || end.Before(month) || !end.Before(month.AddDate(0, 1, 0)) {
		return 0, false
	}

	dayCount := int(end.Sub(month).Hours()/24) + 1
	clippedSpan := time.Duration(dayCount) * 24 * time.Hour
	if stats.ratio(clippedSpan) < CoverageThreshold {
		return 0, false
	}

	return dayCount, true
}

// generateFortyEightHour emits one block per candidate day passing the
// density and coverage checks (or all days when forced), grouped into
// sections by contiguous day runs.
func (w *Writer) generateFortyEightHour(src source.DataSource, timestamps []time.Time, start, end time.Time) ([]*Section, error) {
	cfg := w.cfg.FortyEightHour
	var blocks []block.FortyEightHourBlock

	firstDay := dateUTC(start.Year(), int(start.Month()), start.Day())
	lastDay := dateUTC(end.Year(), int(end.Month()), end.Day())
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		covStart := day.Add(-24 * time.Hour)
		covEnd := day.Add(24 * time.Hour)

		clipStart, clipEnd := maxTime(covStart, start), minTime(covEnd, end)
		if !clipStart.Before(clipEnd) {
			continue
		}

		if !w.cfg.ForceFortyEightHourBlocks {
			stats := analyzeCoverage(timestamps, covStart, covEnd)
			clipSpan := clipEnd.Sub(clipStart)
			if stats.samplesPerDay(clipSpan) < MinDailySamples || stats.ratio(clipSpan) < CoverageThreshold {
				w.logger.Info("skipping forty-eight hour block",
					"center", day.Format(time.DateOnly),
					"density", stats.samplesPerDay(clipSpan),
					"coverage", stats.ratio(clipSpan))
				continue
			}
		}

		coeffs, err := w.fitCoeffs(src, clipStart, clipEnd, covStart, covEnd, cfg.SampleCount, cfg.PolynomialDegree)
		if err != nil {
			if w.skippableFitError(err, "forty-eight hour", day) {
				continue
			}

			return nil, err
		}
		blocks = append(blocks, block.NewFortyEightHourBlock(day.Year(), int(day.Month()), day.Day(), coeffs))
	}

	return groupIntoSections(blocks), nil
}

// fitCoeffs samples the source on count evenly spaced instants across
// [sampleStart, sampleEnd], unwraps for wrapping behaviors, and fits a
// Chebyshev series of the given degree. Sample abscissae are mapped into
// [-1, +1] over the block's full coverage interval [covStart, covEnd), so a
// clipped sampling range fits the correct sub-interval of the block.
func (w *Writer) fitCoeffs(src source.DataSource, sampleStart, sampleEnd, covStart, covEnd time.Time, count, degree int) ([]float32, error) {
	if count < degree+1 {
		count = degree + 1
	}

	xs := make([]float64, count)
	ys := make([]float64, count)
	total := covEnd.Sub(covStart).Seconds()
	step := sampleEnd.Sub(sampleStart).Seconds() / float64(count-1)
	for i := 0; i < count; i++ {
		t := sampleStart.Add(time.Duration(float64(i) * step * float64(time.Second)))
		if t.After(sampleEnd) {
			// Nanosecond rounding of the step must not escape the range.
			t = sampleEnd
		}
		value, err := src.ValueAt(t)
		if err != nil {
			return nil, fmt.Errorf("sampling %s: %w", t.Format(time.RFC3339), err)
		}
		xs[i] = 2.0*(t.Sub(covStart).Seconds()/total) - 1.0
		ys[i] = value
	}

	if w.cfg.Behavior.Kind == format.BehaviorWrapping {
		ys = cheb.UnwrapAngles(ys, w.cfg.Behavior.Min, w.cfg.Behavior.Max)
	}

	coeffs, err := cheb.Fit(xs, ys, degree)
	if err != nil {
		return nil, err
	}

	narrowed := make([]float32, len(coeffs))
	for i, c := range coeffs {
		narrowed[i] = float32(c)
	}

	return narrowed, nil
}

// skippableFitError logs and absorbs per-block fit failures; sampling
// errors from the source stay fatal.
func (w *Writer) skippableFitError(err error, kind string, at time.Time) bool {
	if errors.Is(err, errs.ErrInsufficientSamples) {
		w.logger.Warn("skipping block, fit failed",
			"kind", kind, "at", at.Format(time.DateOnly), "error", err)

		return true
	}

	return false
}

// alignYear rounds year down to a multiple of span, correct for years
// before the epoch as well.
func alignYear(year, span int) int {
	rem := ((year % span) + span) % span

	return year - rem
}

func dateUTC(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}

	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}

	return b
}
