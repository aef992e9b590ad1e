package weft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInferTimespan(t *testing.T) {
	date := func(y, m, d int) time.Time {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  string
	}{
		{"Single year", date(2024, 1, 1), date(2024, 12, 31), "2024"},
		{"Single year with buffer", date(2023, 12, 31), date(2025, 1, 1), "2024"},
		{"Decade", date(2020, 1, 1), date(2029, 12, 31), "2020s"},
		{"Decade with buffer", date(2019, 12, 31), date(2030, 1, 1), "2020s"},
		{"Partial decade", date(2021, 3, 1), date(2027, 6, 1), "2020s"},
		{"Range", date(1900, 1, 1), date(2100, 1, 1), "1900-2100"},
		{"Cross-decade range", date(2018, 1, 1), date(2023, 1, 1), "2018-2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, InferTimespan(tt.start, tt.end))
		})
	}
}
