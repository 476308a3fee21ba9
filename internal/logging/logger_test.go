package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("debug", "json", &buf)
	require.NoError(t, err)

	log.Info("prospect created", zap.String("prospect_id", "p-1"))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "prospect created", entry["msg"])
	assert.Equal(t, "p-1", entry["prospect_id"])
	assert.Contains(t, entry, "ts")
}

func TestNewWithWriterFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("warn", "console", &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("ERROR")
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
