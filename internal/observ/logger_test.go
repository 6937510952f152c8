package observ

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerDefaultsUnknownLevel(t *testing.T) {
	log, err := NewLogger("development", "chatty")
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.InfoLevel))
	require.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerHonoursConfiguredLevel(t *testing.T) {
	log, err := NewLogger("production", "debug")
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
