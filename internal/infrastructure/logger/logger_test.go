package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/capnotes/pkg/config"
)

func TestNew_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capnotes.log")

	log, err := New(
		config.ServerConfig{Environment: "production"},
		config.LogConfig{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	)
	require.NoError(t, err)

	log.Info("pipeline.completed")
	log.Debug("pipeline.stage.skipped")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pipeline.completed")
	assert.NotContains(t, string(data), "pipeline.stage.skipped")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.ServerConfig{}, config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
