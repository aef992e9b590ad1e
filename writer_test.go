package weft

import (
	"testing"
	"time"

	"github.com/arloliu/weft/errs"
	"github.com/arloliu/weft/source"
	"github.com/stretchr/testify/require"
)

// linearSource returns a slowly increasing unbounded quantity, trivially
// fittable at every degree.
func linearSource(start, end time.Time, step time.Duration) *source.FuncSource {
	return &source.FuncSource{
		StartTime: start,
		EndTime:   end,
		Step:      step,
		Fn: func(t time.Time) float64 {
			return 100 + t.Sub(start).Hours()*0.01
		},
	}
}

func unboundedConfig() Config {
	return Config{
		ID:         "mars",
		DataSource: "test",
		Quantity:   "distance",
		Behavior:   Unbounded(),
	}
}

func TestWriter_EmptyDataSource(t *testing.T) {
	src := &source.FuncSource{
		StartTime: date(2024, 1, 1),
		EndTime:   date(2024, 1, 2),
		Step:      0, // no timestamps
		Fn:        func(time.Time) float64 { return 1 },
	}

	w, err := NewWriter(DefaultConfig("mars", "test", "longitude", Unbounded()))
	require.NoError(t, err)
	_, err = w.Generate(src)
	require.ErrorIs(t, err, errs.ErrEmptyDataSource)
}

// Coverage rejection: five days of data cannot justify a monthly block.
func TestWriter_CoverageRejection(t *testing.T) {
	src := linearSource(date(2024, 1, 1), time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC), time.Hour)

	cfg := unboundedConfig()
	cfg.Monthly.Enabled = true

	w, err := NewWriter(cfg)
	require.NoError(t, err)
	f, err := w.Generate(src)
	require.NoError(t, err)
	require.Empty(t, f.Monthly)
	require.Zero(t, f.BlockCount())

	// The file still serializes and parses; it just covers nothing.
	data, err := f.Bytes()
	require.NoError(t, err)
	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Zero(t, parsed.BlockCount())
}

// Coverage policy: uniform hourly sampling over one calendar month yields
// exactly one monthly block and one forty-eight hour block per day.
func TestWriter_CoveragePolicy(t *testing.T) {
	src := linearSource(date(2024, 1, 1), time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC), time.Hour)

	cfg := unboundedConfig()
	cfg.Monthly.Enabled = true
	cfg.FortyEightHour.Enabled = true

	w, err := NewWriter(cfg)
	require.NoError(t, err)
	f, err := w.Generate(src)
	require.NoError(t, err)

	require.Len(t, f.Monthly, 1)
	require.Equal(t, uint8(31), f.Monthly[0].DayCount)

	require.Len(t, f.Sections, 1)
	require.Equal(t, uint32(31), f.Sections[0].Header.BlockCount)
	blocks, err := f.Sections[0].Blocks()
	require.NoError(t, err)
	require.Equal(t, uint8(1), blocks[0].Day)
	require.Equal(t, uint8(31), blocks[30].Day)
	for i := 1; i < len(blocks); i++ {
		require.True(t, blocks[i-1].Center().Before(blocks[i].Center()))
	}
}

func TestWriter_SparseDataSkipsFortyEightHour(t *testing.T) {
	// Four samples per day: under the eight-per-day density floor.
	src := linearSource(date(2024, 1, 1), date(2024, 1, 31), 6*time.Hour)

	cfg := unboundedConfig()
	cfg.FortyEightHour.Enabled = true

	w, err := NewWriter(cfg)
	require.NoError(t, err)
	f, err := w.Generate(src)
	require.NoError(t, err)
	require.Empty(t, f.Sections)

	// Forcing bypasses the density and coverage checks.
	cfg.ForceFortyEightHourBlocks = true
	w, err = NewWriter(cfg)
	require.NoError(t, err)
	f, err = w.Generate(src)
	require.NoError(t, err)
	require.NotEmpty(t, f.Sections)
}

func TestWriter_MultiYear(t *testing.T) {
	src := linearSource(date(2020, 1, 1), date(2029, 12, 31), 6*time.Hour)

	cfg := unboundedConfig()
	cfg.MultiYear.Enabled = true

	w, err := NewWriter(cfg, WithClock(func() time.Time { return testGeneratedAt }))
	require.NoError(t, err)
	f, err := w.Generate(src)
	require.NoError(t, err)

	require.Len(t, f.MultiYear, 1)
	require.Equal(t, int16(2020), f.MultiYear[0].StartYear)
	require.Equal(t, uint16(10), f.MultiYear[0].Duration)
	require.Len(t, f.MultiYear[0].Coeffs, DefaultMultiYearDegree+1)
	require.Equal(t, "2020s", f.Preamble.Timespan)

	// The linear signal reads back accurately across the decade.
	r := mustReader(t, f)
	at := date(2025, 6, 15)
	v, err := r.ValueAt(at)
	require.NoError(t, err)
	require.InDelta(t, 100+at.Sub(src.StartTime).Hours()*0.01, v, 1e-2)
}

func TestWriter_MultiYearSkipsSparseSpan(t *testing.T) {
	// Three years of data cover 30% of an aligned decade block.
	src := linearSource(date(2020, 1, 1), date(2022, 12, 31), 6*time.Hour)

	cfg := unboundedConfig()
	cfg.MultiYear.Enabled = true

	w, err := NewWriter(cfg)
	require.NoError(t, err)
	f, err := w.Generate(src)
	require.NoError(t, err)
	require.Empty(t, f.MultiYear)

	// A span-aligned shorter configuration accepts a three-year range.
	aligned := linearSource(date(2019, 1, 1), date(2021, 12, 31), 6*time.Hour)
	cfg.MultiYear.SpanYears = 3
	w, err = NewWriter(cfg)
	require.NoError(t, err)
	f, err = w.Generate(aligned)
	require.NoError(t, err)
	require.Len(t, f.MultiYear, 1)
	require.Equal(t, int16(2019), f.MultiYear[0].StartYear)
	require.Equal(t, uint16(3), f.MultiYear[0].Duration)
}

func TestWriter_PartialMonth(t *testing.T) {
	src := linearSource(date(2024, 1, 1), date(2024, 2, 10), time.Hour)

	cfg := unboundedConfig()
	cfg.Monthly.Enabled = true

	t.Run("Disallowed by default", func(t *testing.T) {
		w, err := NewWriter(cfg)
		require.NoError(t, err)
		f, err := w.Generate(src)
		require.NoError(t, err)
		require.Len(t, f.Monthly, 1) // January only
	})

	t.Run("Allowed", func(t *testing.T) {
		allowed := cfg
		allowed.Monthly.AllowPartialMonths = true
		w, err := NewWriter(allowed)
		require.NoError(t, err)
		f, err := w.Generate(src)
		require.NoError(t, err)
		require.Len(t, f.Monthly, 2)

		partial := f.Monthly[1]
		require.Equal(t, uint8(2), partial.Month)
		require.Equal(t, uint8(10), partial.DayCount)
		require.True(t, partial.IsPartial())

		// The partial block serves reads up to the end of the data.
		r := mustReader(t, f)
		v, err := r.ValueAt(date(2024, 2, 9))
		require.NoError(t, err)
		require.InDelta(t, 100+date(2024, 2, 9).Sub(src.StartTime).Hours()*0.01, v, 1e-2)
	})
}

func TestWriter_CanonicalOrder(t *testing.T) {
	src := linearSource(date(2024, 1, 1), time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC), time.Hour)

	cfg := unboundedConfig()
	cfg.Monthly.Enabled = true
	cfg.FortyEightHour.Enabled = true

	w, err := NewWriter(cfg)
	require.NoError(t, err)
	f, err := w.Generate(src)
	require.NoError(t, err)

	// Serialized order is monthly before sections; parsing enforces it.
	data, err := f.Bytes()
	require.NoError(t, err)
	_, err = Parse(data)
	require.NoError(t, err)
}

func TestWriter_CoefficientCount(t *testing.T) {
	src := linearSource(date(2024, 1, 1), time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC), time.Hour)

	cfg := unboundedConfig()
	cfg.Monthly.Enabled = true
	cfg.Monthly.PolynomialDegree = 4

	w, err := NewWriter(cfg)
	require.NoError(t, err)
	f, err := w.Generate(src)
	require.NoError(t, err)
	require.Len(t, f.Monthly[0].Coeffs, 5)
}

func TestRecommendedConfig(t *testing.T) {
	t.Run("Short dense span", func(t *testing.T) {
		src := linearSource(date(2024, 1, 1), date(2024, 1, 5), 30*time.Minute)
		cfg := RecommendedConfig(src)
		require.True(t, cfg.FortyEightHour.Enabled)
		require.False(t, cfg.Monthly.Enabled)
		require.False(t, cfg.MultiYear.Enabled)
	})

	t.Run("Month-scale dense span", func(t *testing.T) {
		src := linearSource(date(2024, 1, 1), date(2024, 1, 28), time.Hour)
		cfg := RecommendedConfig(src)
		require.True(t, cfg.Monthly.Enabled)
		require.True(t, cfg.FortyEightHour.Enabled)
	})

	t.Run("Multi-year moderate density", func(t *testing.T) {
		src := linearSource(date(2020, 1, 1), date(2024, 1, 1), 6*time.Hour)
		cfg := RecommendedConfig(src)
		require.True(t, cfg.Monthly.Enabled)
		require.True(t, cfg.MultiYear.Enabled)
		require.False(t, cfg.FortyEightHour.Enabled)
	})

	t.Run("Sparse long span", func(t *testing.T) {
		src := linearSource(date(2000, 1, 1), date(2024, 1, 1), 24*time.Hour)
		cfg := RecommendedConfig(src)
		require.True(t, cfg.MultiYear.Enabled)
		require.False(t, cfg.Monthly.Enabled)
		require.False(t, cfg.FortyEightHour.Enabled)
	})

	t.Run("Defaults are filled", func(t *testing.T) {
		src := linearSource(date(2024, 1, 1), date(2024, 1, 5), 30*time.Minute)
		cfg := RecommendedConfig(src)
		require.Equal(t, DefaultFortyEightHourSampleCount, cfg.FortyEightHour.SampleCount)
		require.Equal(t, DefaultFortyEightHourDegree, cfg.FortyEightHour.PolynomialDegree)
	})
}
