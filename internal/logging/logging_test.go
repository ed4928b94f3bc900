package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mybites/internal/config"
)

func TestBuild_JSONLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := build(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Infow("dropped")
	logger.Warnw("kept", "streak", 3)
	cleanup()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, float64(3), entry["streak"])
}

func TestBuild_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mybites.log")
	var buf bytes.Buffer
	logger, cleanup, err := build(config.LogConfig{Level: "info", Format: "console", File: path, MaxSizeMB: 1}, &buf)
	require.NoError(t, err)

	logger.Info("hello file")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.Contains(t, buf.String(), "hello file")
}

func TestBuild_BadLevel(t *testing.T) {
	_, _, err := build(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}
