package weft

import (
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/weft/errs"
)

const (
	// PreambleMagic is the literal every weft file starts with.
	PreambleMagic = "#weft!"

	// PreambleVersion is the only format version this package reads and writes.
	PreambleVersion = "v0.02"

	// PreambleMethod is the fixed approximation method token.
	PreambleMethod = "chebychevs"

	// PreamblePrecision is the coefficient width token. Coefficients are
	// always IEEE 754 32-bit floats in v0.02.
	PreamblePrecision = "32bit"

	// maxPreambleLen bounds the preamble scan so corrupt input cannot make
	// the parser walk an arbitrarily long "line".
	maxPreambleLen = 1024

	// generatedAtLayout is the timestamp layout inside the generated@ token.
	generatedAtLayout = "2006-01-02T15:04:05"
)

// Preamble is the parsed single-line UTF-8 header of a weft file.
//
// The serialized form is space-separated fields terminated by a newline:
//
//	#weft! v0.02 mars jpl:horizons 2000s 32bit longitude wrapping[0,360] chebychevs generated@2024-03-01T12:00:00
//
// The value-behavior field is omitted entirely for unbounded quantities.
// Fields beyond generated@ are ignored on parse but preserved verbatim so a
// parse/serialize round trip is byte-identical.
type Preamble struct {
	// ID is the body or point identifier, a free-form token (e.g. "mars").
	ID string
	// DataSource is an opaque provenance token (e.g. "jpl:horizons").
	DataSource string
	// Timespan is a human-readable label only; it carries no semantics.
	Timespan string
	// Precision is the coefficient float width token, "32bit".
	Precision string
	// Quantity names the stored scalar (e.g. "longitude").
	Quantity string
	// Behavior is the value-behavior of the quantity.
	Behavior ValueBehavior
	// Method is the approximation method token, "chebychevs".
	Method string
	// GeneratedAt is the raw generation-time token including the
	// "generated@" prefix. Informational only.
	GeneratedAt string
	// Extra preserves any ignored trailing fields for byte-exact round trips.
	Extra string
}

// NewPreamble assembles a preamble with the fixed magic, version, precision
// and method tokens filled in.
func NewPreamble(id, dataSource, timespan, quantity string, behavior ValueBehavior, generatedAt time.Time) Preamble {
	return Preamble{
		ID:          id,
		DataSource:  dataSource,
		Timespan:    timespan,
		Precision:   PreamblePrecision,
		Quantity:    quantity,
		Behavior:    behavior,
		Method:      PreambleMethod,
		GeneratedAt: "generated@" + generatedAt.UTC().Format(generatedAtLayout),
	}
}

// String renders the preamble line including the terminating newline.
func (p Preamble) String() string {
	var sb strings.Builder
	sb.WriteString(PreambleMagic)
	sb.WriteByte(' ')
	sb.WriteString(PreambleVersion)
	for _, field := range []string{p.ID, p.DataSource, p.Timespan, p.Precision, p.Quantity} {
		sb.WriteByte(' ')
		sb.WriteString(field)
	}
	if behavior := p.Behavior.String(); behavior != "" {
		sb.WriteByte(' ')
		sb.WriteString(behavior)
	}
	sb.WriteByte(' ')
	sb.WriteString(p.Method)
	sb.WriteByte(' ')
	sb.WriteString(p.GeneratedAt)
	if p.Extra != "" {
		sb.WriteByte(' ')
		sb.WriteString(p.Extra)
	}
	sb.WriteByte('\n')

	return sb.String()
}

// ParsePreamble decodes a preamble line. The line must not include the
// terminating newline.
//
// Returns:
//   - Preamble: Decoded preamble
//   - error: errs.ErrInvalidPreamble on any malformation
func ParsePreamble(line string) (Preamble, error) {
	tokens := strings.Split(line, " ")
	if len(tokens) < 8 {
		return Preamble{}, fmt.Errorf("%w: %d fields, need at least 8", errs.ErrInvalidPreamble, len(tokens))
	}
	if tokens[0] != PreambleMagic {
		return Preamble{}, fmt.Errorf("%w: missing %s magic", errs.ErrInvalidPreamble, PreambleMagic)
	}
	if tokens[1] != PreambleVersion {
		return Preamble{}, fmt.Errorf("%w: unsupported version %q", errs.ErrInvalidPreamble, tokens[1])
	}

	p := Preamble{
		ID:         tokens[2],
		DataSource: tokens[3],
		Timespan:   tokens[4],
		Precision:  tokens[5],
		Quantity:   tokens[6],
	}

	// The behavior field is optional: when the next token is the method
	// literal, the quantity is unbounded and the fields shift left by one.
	rest := tokens[7:]
	if rest[0] != PreambleMethod {
		behavior, err := ParseValueBehavior(rest[0])
		if err != nil {
			return Preamble{}, err
		}
		p.Behavior = behavior
		rest = rest[1:]
	}

	if len(rest) == 0 || rest[0] != PreambleMethod {
		return Preamble{}, fmt.Errorf("%w: missing method field %q", errs.ErrInvalidPreamble, PreambleMethod)
	}
	p.Method = rest[0]
	rest = rest[1:]

	if len(rest) == 0 || !strings.HasPrefix(rest[0], "generated@") {
		return Preamble{}, fmt.Errorf("%w: missing generated@ field", errs.ErrInvalidPreamble)
	}
	p.GeneratedAt = rest[0]

	// Fields beyond generated@ are ignored but preserved.
	if len(rest) > 1 {
		p.Extra = strings.Join(rest[1:], " ")
	}

	return p, nil
}

// Compatible checks that the identity fields of two preambles match
// byte-for-byte: id, data source, precision, quantity, value behavior, and
// method. Timespan and generation time are recomputed on combine and do not
// participate.
//
// Returns:
//   - error: errs.ErrIncompatiblePreambles naming the first differing field
//     and both values, or nil when compatible
func (p Preamble) Compatible(other Preamble) error {
	fields := []struct {
		name string
		a, b string
	}{
		{"id", p.ID, other.ID},
		{"data_source", p.DataSource, other.DataSource},
		{"precision", p.Precision, other.Precision},
		{"quantity", p.Quantity, other.Quantity},
		{"value_behavior", p.behaviorToken(), other.behaviorToken()},
		{"method", p.Method, other.Method},
	}
	for _, f := range fields {
		if f.a != f.b {
			return fmt.Errorf("%w: field %q differs: %q vs %q", errs.ErrIncompatiblePreambles, f.name, f.a, f.b)
		}
	}

	return nil
}

// behaviorToken renders the behavior for comparison and error messages,
// mapping the omitted unbounded form to an explicit token.
func (p Preamble) behaviorToken() string {
	if s := p.Behavior.String(); s != "" {
		return s
	}

	return "unbounded"
}
