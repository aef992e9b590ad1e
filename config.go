package weft

// Defaults for block generation. Coverage is the span-based ratio of
// observed data to a block's time span; blocks under the threshold are
// skipped rather than fitted against sparse data.
const (
	// CoverageThreshold is the minimum coverage ratio for any block kind.
	CoverageThreshold = 0.666

	// MinDailySamples is the minimum per-day sample density for
	// forty-eight hour blocks.
	MinDailySamples = 8.0

	DefaultMultiYearSampleCount      = 50
	DefaultMultiYearDegree           = 14
	DefaultMultiYearSpan             = 10
	DefaultMonthlySampleCount        = 48
	DefaultMonthlyDegree             = 9
	DefaultFortyEightHourSampleCount = 48
	DefaultFortyEightHourDegree      = 5
)

// MultiYearConfig controls multi-year block generation.
type MultiYearConfig struct {
	// Enabled includes multi-year blocks in the output.
	Enabled bool
	// SampleCount is the number of evenly spaced samples fitted per block.
	SampleCount int
	// PolynomialDegree is the Chebyshev series order; coefficient count is
	// degree+1.
	PolynomialDegree int
	// SpanYears is the nominal span of one block. Blocks are aligned to
	// multiples of it.
	SpanYears int
}

// MonthlyConfig controls monthly block generation.
type MonthlyConfig struct {
	Enabled          bool
	SampleCount      int
	PolynomialDegree int
	// AllowPartialMonths permits a short day-count block for the month at
	// the end of the data range when it fails the full-month coverage
	// threshold. Off by default: a sparse boundary month is normally
	// skipped, not approximated.
	AllowPartialMonths bool
}

// FortyEightHourConfig controls forty-eight hour block generation.
type FortyEightHourConfig struct {
	Enabled          bool
	SampleCount      int
	PolynomialDegree int
}

// Config is the writer configuration: preamble identity plus per-kind block
// generation settings.
type Config struct {
	// ID is the body or point identifier written to the preamble.
	ID string
	// DataSource is the preamble provenance token.
	DataSource string
	// Quantity names the stored scalar.
	Quantity string
	// Behavior is the value behavior of the quantity.
	Behavior ValueBehavior

	MultiYear      MultiYearConfig
	Monthly        MonthlyConfig
	FortyEightHour FortyEightHourConfig

	// ForceFortyEightHourBlocks bypasses the coverage and sample-density
	// checks for forty-eight hour blocks.
	ForceFortyEightHourBlocks bool

	// CustomTimespan overrides the inferred preamble timespan label.
	CustomTimespan string
}

// DefaultConfig returns a configuration with every block kind enabled at its
// default sample count and degree.
func DefaultConfig(id, dataSource, quantity string, behavior ValueBehavior) Config {
	cfg := Config{
		ID:         id,
		DataSource: dataSource,
		Quantity:   quantity,
		Behavior:   behavior,
	}
	cfg.MultiYear.Enabled = true
	cfg.Monthly.Enabled = true
	cfg.FortyEightHour.Enabled = true
	cfg.normalize()

	return cfg
}

// normalize fills zero-valued sample counts, degrees, and spans with their
// defaults so a hand-built Config needs only the fields it cares about.
func (c *Config) normalize() {
	if c.MultiYear.SampleCount <= 0 {
		c.MultiYear.SampleCount = DefaultMultiYearSampleCount
	}
	if c.MultiYear.PolynomialDegree <= 0 {
		c.MultiYear.PolynomialDegree = DefaultMultiYearDegree
	}
	if c.MultiYear.SpanYears <= 0 {
		c.MultiYear.SpanYears = DefaultMultiYearSpan
	}
	if c.Monthly.SampleCount <= 0 {
		c.Monthly.SampleCount = DefaultMonthlySampleCount
	}
	if c.Monthly.PolynomialDegree <= 0 {
		c.Monthly.PolynomialDegree = DefaultMonthlyDegree
	}
	if c.FortyEightHour.SampleCount <= 0 {
		c.FortyEightHour.SampleCount = DefaultFortyEightHourSampleCount
	}
	if c.FortyEightHour.PolynomialDegree <= 0 {
		c.FortyEightHour.PolynomialDegree = DefaultFortyEightHourDegree
	}
}
