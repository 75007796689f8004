package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	newLogger("debug", "text", &buf).Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	newLogger("warn", "text", &buf).Info("hidden")
	assert.Empty(t, buf.String())
}

func TestNewLoggerFormatAndFallbacks(t *testing.T) {
	var buf bytes.Buffer
	newLogger("info", "json", &buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	// Unrecognized level falls back to info: debug suppressed, info kept.
	buf.Reset()
	logger := newLogger("noisy", "text", &buf)
	logger.Debug("suppressed")
	assert.Empty(t, buf.String())
	logger.Info("kept")
	assert.Contains(t, buf.String(), "kept")
}
