package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, f func()) string {
	t.Helper()

	var buf bytes.Buffer
	RedirectTo(&buf)
	pterm.DisableStyling()
	t.Cleanup(func() {
		RedirectTo(os.Stderr)
		pterm.EnableStyling()
	})

	f()

	return buf.String()
}

func TestSetLevel(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		expectLevel LogLevel
		expectError bool
	}{
		{"trace", "trace", LevelTrace, false},
		{"debug", "debug", LevelDebug, false},
		{"info", "info", LevelInfo, false},
		{"warn", "warn", LevelWarn, false},
		{"warning", "warning", LevelWarn, false},
		{"error", "error", LevelError, false},
		{"fatal", "fatal", LevelFatal, false},
		{"uppercase", "INFO", LevelInfo, false},
		{"padded", "  debug ", LevelDebug, false},
		{"invalid", "verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Log.level = LevelInfo

			err := SetLevel(tt.level)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid log level")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectLevel, Log.Level())
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	t.Run("debug_level_logs_debug", func(t *testing.T) {
		require.NoError(t, SetLevel("debug"))

		output := captureOutput(t, func() {
			Log.Debugf("loading %s", "book-1")
		})
		assert.Contains(t, output, "loading book-1")
	})

	t.Run("info_level_hides_debug", func(t *testing.T) {
		require.NoError(t, SetLevel("info"))

		output := captureOutput(t, func() {
			Log.Debug("hidden")
			Log.Infof("search %q", "sapiens")
		})
		assert.NotContains(t, output, "hidden")
		assert.Contains(t, output, `search "sapiens"`)
	})

	t.Run("error_level_blocks_warnings", func(t *testing.T) {
		require.NoError(t, SetLevel("error"))

		output := captureOutput(t, func() {
			Log.Warn("should not appear")
			Log.Errorf("upload failed: %v", "boom")
		})
		assert.NotContains(t, output, "should not appear")
		assert.Contains(t, output, "upload failed: boom")
	})
}

func TestRedirectTo(t *testing.T) {
	var buf bytes.Buffer
	RedirectTo(&buf)
	t.Cleanup(func() { RedirectTo(os.Stderr) })

	assert.Equal(t, &buf, pterm.Info.Writer)
	assert.Equal(t, &buf, pterm.Warning.Writer)
	assert.Equal(t, &buf, pterm.Error.Writer)
	assert.Equal(t, &buf, pterm.Debug.Writer)
}

func TestInitPterm(t *testing.T) {
	InitPterm()

	assert.Equal(t, os.Stderr, pterm.Info.Writer)
	assert.Equal(t, os.Stderr, pterm.Error.Writer)
}
