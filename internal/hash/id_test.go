package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	// Deterministic across calls.
	require.Equal(t, ID("mars.longitude"), ID("mars.longitude"))
	require.NotEqual(t, ID("mars.longitude"), ID("mars.latitude"))
	require.NotZero(t, ID("mars.longitude"))
}

func TestSum(t *testing.T) {
	data := []byte("#weft! v0.02 mars jpl:horizons 2000s 32bit longitude")
	require.Equal(t, Sum(data), Sum(data))
	require.NotEqual(t, Sum(data), Sum(data[:10]))
}
