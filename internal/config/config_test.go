package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "/data/taskboard.db", cfg.DBPath)
	assert.Equal(t, "/data/uploads", cfg.UploadPath)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("DB_PATH", "/tmp/test.db")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
}

func TestLoadViewerDefaults(t *testing.T) {
	cfg := LoadViewer()

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, "/data/cache", cfg.CacheDir)
	assert.True(t, cfg.MergeLocalStatus)
	assert.True(t, cfg.MergeLocalPhotos)
	assert.True(t, cfg.MergeLocalNotes)
}

func TestLoadViewerOverrides(t *testing.T) {
	t.Setenv("API_URL", "http://board.internal:9000")
	t.Setenv("MERGE_LOCAL_STATUS", "0")

	cfg := LoadViewer()
	assert.Equal(t, "http://board.internal:9000", cfg.APIBaseURL)
	assert.False(t, cfg.MergeLocalStatus)
	assert.True(t, cfg.MergeLocalNotes)
}
