package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_HasComponent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(slog.LevelDebug, "text", &buf))

	New("extract").Info("hello")

	out := buf.String()
	assert.Contains(t, out, "component=extract")
	assert.Contains(t, out, "hello")
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(slog.LevelInfo, "text", &buf))

	New("x").Debug("hidden")
	assert.Empty(t, buf.String())

	New("x").Warn("shown")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(slog.LevelInfo, "JSON", &buf))

	New("json-test").Info("json check", "path", "figs/a.pdf")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "json check", entry["msg"])
	assert.Equal(t, "json-test", entry["component"])
	assert.Equal(t, "figs/a.pdf", entry["path"])
}

func TestInit_UnknownFormat(t *testing.T) {
	err := Init(slog.LevelInfo, "yaml", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported log format")
}
