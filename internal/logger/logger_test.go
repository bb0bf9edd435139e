package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestVerboseGating(t *testing.T) {
	buf := capture(t)

	SetVerbose(false)
	Debug("hidden %d", 1)
	Info("hidden")
	Warn("hidden")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	assert.True(t, IsVerbose())
	Debug("shown %d", 1)
	Info("shown")
	Warn("shown")
	assert.Contains(t, buf.String(), "[DEBUG] shown 1")
	assert.Contains(t, buf.String(), "[INFO] shown")
	assert.Contains(t, buf.String(), "[WARN] shown")
}

func TestErrorAlwaysPrints(t *testing.T) {
	buf := capture(t)

	SetVerbose(false)
	Error("boom: %v", "cause")
	assert.Contains(t, buf.String(), "[ERROR] boom: cause")
}
