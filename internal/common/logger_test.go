package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerConsoleOnly(t *testing.T) {
	config := NewDefaultConfig()
	config.Logging.Output = []string{"stdout"}
	config.Logging.Level = "info"

	logger := InitLogger(config)

	require.NotNil(t, logger)
	logger.Info().Str("check", "console").Msg("logger initialized")
}

func TestGetLoggerIsNonNil(t *testing.T) {
	assert.NotNil(t, GetLogger())
}

func TestPrintBanner(t *testing.T) {
	// Smoke test only; output goes to stdout
	PrintBanner("dev")
}
