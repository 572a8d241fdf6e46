package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("level selection", func(t *testing.T) {
		testCases := []struct {
			level        string
			debugEnabled bool
			warnEnabled  bool
		}{
			{level: "debug", debugEnabled: true, warnEnabled: true},
			{level: "info", debugEnabled: false, warnEnabled: true},
			{level: "error", debugEnabled: false, warnEnabled: false},
			{level: "", debugEnabled: false, warnEnabled: true}, // info fallback
		}
		for _, tc := range testCases {
			t.Run("level "+tc.level, func(t *testing.T) {
				logger := newLogger(&Config{LogLevel: tc.level}, &bytes.Buffer{})
				assert.Equal(t, tc.debugEnabled, logger.Enabled(context.Background(), slog.LevelDebug))
				assert.Equal(t, tc.warnEnabled, logger.Enabled(context.Background(), slog.LevelWarn))
			})
		}
	})

	t.Run("json format emits json records", func(t *testing.T) {
		var out bytes.Buffer
		logger := newLogger(&Config{LogFormat: "json"}, &out)
		logger.Info("build started", "scheme", "debug")

		var record map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &record))
		assert.Equal(t, "build started", record["msg"])
		assert.Equal(t, "debug", record["scheme"])
	})

	t.Run("text is the default format", func(t *testing.T) {
		var out bytes.Buffer
		newLogger(&Config{}, &out).Info("build started")
		assert.Contains(t, out.String(), "msg=\"build started\"")
	})
}
