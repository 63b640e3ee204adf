package cmd

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func TestBaseCmd_LoggerFallback(t *testing.T) {
	t.Parallel()

	c := &BaseCmd{}

	logger := c.Logger()
	require.NotNil(t, logger)

	// The fallback logger is memoized.
	require.Same(t, logger, c.Logger())
}

func TestBaseCmd_SetLogger(t *testing.T) {
	t.Parallel()

	c := &BaseCmd{}
	custom := hclog.NewNullLogger()
	c.SetLogger(custom)

	require.Same(t, custom, c.Logger())
}

func TestVersion(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Version())
}
