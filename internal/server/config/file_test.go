package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseFile_JSON(t *testing.T) {
	path := writeTempFile(t, "cfg.json", `{
		"endpoint_addr_http": ":7000",
		"database_dsn": "dsn",
		"session_ttl": "2h",
		"storage_backend": "s3",
		"s3_bucket": "bucket",
		"thumbnail_widths": [64, 32],
		"run_worker": false
	}`)

	var c Config
	c.LoadDefaults()
	parseFile(&c, []string{"-c", path})

	assert.Equal(t, ":7000", c.EndpointAddrHTTP)
	assert.Equal(t, "dsn", c.DatabaseDSN)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, StorageS3, c.StorageBackend)
	assert.Equal(t, "bucket", c.S3Bucket)
	assert.Equal(t, []int{64, 32}, c.ThumbnailWidths)
	assert.False(t, c.RunWorker)
	assert.Equal(t, "/tmp/files_manager", c.FolderPath)
}

func TestParseFile_TOML(t *testing.T) {
	path := writeTempFile(t, "cfg.toml", `
folder_path = "/srv/files"
session_ttl = "30m"
thumbnail_workers = 5
redis_db = 2
`)

	var c Config
	c.LoadDefaults()
	parseFile(&c, []string{"--config=" + path})

	assert.Equal(t, "/srv/files", c.FolderPath)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, 5, c.ThumbnailWorkers)
	assert.Equal(t, 2, c.RedisDB)
	assert.True(t, c.RunWorker)
}

func TestParseFile_NoFlag(t *testing.T) {
	var c Config
	c.LoadDefaults()
	want := c

	parseFile(&c, []string{"-f", "/x"})
	assert.Equal(t, want, c)
}

func TestParseFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		var c Config
		require.Panics(t, func() {
			parseFile(&c, []string{"-c", filepath.Join(t.TempDir(), "absent.json")})
		})
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", `{"folder_path": `)
		var c Config
		require.Panics(t, func() { parseFile(&c, []string{"-c", path}) })
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := writeTempFile(t, "bad.toml", `folder_path = `)
		var c Config
		require.Panics(t, func() { parseFile(&c, []string{"-c", path}) })
	})
}
