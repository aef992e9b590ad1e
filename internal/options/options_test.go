package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	name  string
	count int
}

func TestApply(t *testing.T) {
	cfg := &testConfig{}

	err := Apply(cfg,
		NoError(func(c *testConfig) { c.name = "mars" }),
		New(func(c *testConfig) error {
			c.count = 42
			return nil
		}),
	)

	require.NoError(t, err)
	require.Equal(t, "mars", cfg.name)
	require.Equal(t, 42, cfg.count)
}

func TestApply_Error(t *testing.T) {
	cfg := &testConfig{}
	sentinel := errors.New("bad option")

	err := Apply(cfg,
		NoError(func(c *testConfig) { c.count = 1 }),
		New(func(*testConfig) error { return sentinel }),
		NoError(func(c *testConfig) { c.count = 2 }),
	)

	require.ErrorIs(t, err, sentinel)
	// Options after the failing one are not applied.
	require.Equal(t, 1, cfg.count)
}
