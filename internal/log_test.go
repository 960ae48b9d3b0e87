package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, LogLevelDebug, ParseLogLevel(" debug "))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("TRACE"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLoggerGatesByLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerWithCore(LogLevelWarn, core)

	logger.Error("e %d", 1)
	logger.Warn("w")
	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Trace("hidden")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "e 1", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	}
}

func TestTraceRoutesThroughDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerWithCore(LogLevelTrace, core).With("component", "executor")

	logger.Trace("attempt %s", "woa_tool.bench")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "[TRACE] attempt woa_tool.bench", entries[0].Message)
		assert.Equal(t, "executor", entries[0].ContextMap()["component"])
	}
}
