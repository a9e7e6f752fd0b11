package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
	"github.com/dmitrijs2005/filesmanager/internal/timex"
)

// FileConfig is the on-disk shape of the configuration. Zero values leave
// the corresponding Config field untouched.
type FileConfig struct {
	EndpointAddrHTTP     string         `json:"endpoint_addr_http" toml:"endpoint_addr_http"`
	EndpointAddrGRPC     string         `json:"endpoint_addr_grpc" toml:"endpoint_addr_grpc"`
	DatabaseDSN          string         `json:"database_dsn" toml:"database_dsn"`
	RedisAddr            string         `json:"redis_addr" toml:"redis_addr"`
	RedisPassword        string         `json:"redis_password" toml:"redis_password"`
	RedisDB              int            `json:"redis_db" toml:"redis_db"`
	SessionTTL           timex.Duration `json:"session_ttl" toml:"session_ttl"`
	FolderPath           string         `json:"folder_path" toml:"folder_path"`
	StorageBackend       string         `json:"storage_backend" toml:"storage_backend"`
	S3RootUser           string         `json:"s3_root_user" toml:"s3_root_user"`
	S3RootPassword       string         `json:"s3_root_password" toml:"s3_root_password"`
	S3Bucket             string         `json:"s3_bucket" toml:"s3_bucket"`
	S3Region             string         `json:"s3_region" toml:"s3_region"`
	S3BaseEndpoint       string         `json:"s3_base_endpoint" toml:"s3_base_endpoint"`
	QueueBackend         string         `json:"queue_backend" toml:"queue_backend"`
	ThumbnailQueue       string         `json:"thumbnail_queue" toml:"thumbnail_queue"`
	ThumbnailWidths      []int          `json:"thumbnail_widths" toml:"thumbnail_widths"`
	ThumbnailMaxAttempts int            `json:"thumbnail_max_attempts" toml:"thumbnail_max_attempts"`
	ThumbnailWorkers     int            `json:"thumbnail_workers" toml:"thumbnail_workers"`
	RunWorker            *bool          `json:"run_worker" toml:"run_worker"`
	LogLevel             string         `json:"log_level" toml:"log_level"`
}

// parseFile overlays values from the file given with -c or -config. Files
// ending in ".toml" are decoded as TOML, anything else as JSON. A file that
// cannot be read or decoded is a startup error and panics.
func parseFile(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, fc)
	} else {
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&c.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.RedisAddr, fc.RedisAddr)
	setString(&c.RedisPassword, fc.RedisPassword)
	if fc.RedisDB != 0 {
		c.RedisDB = fc.RedisDB
	}
	if fc.SessionTTL.Duration > 0 {
		c.SessionTTL = fc.SessionTTL.Duration
	}
	setString(&c.FolderPath, fc.FolderPath)
	setString(&c.StorageBackend, fc.StorageBackend)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.QueueBackend, fc.QueueBackend)
	setString(&c.ThumbnailQueue, fc.ThumbnailQueue)
	if len(fc.ThumbnailWidths) > 0 {
		c.ThumbnailWidths = append([]int(nil), fc.ThumbnailWidths...)
	}
	if fc.ThumbnailMaxAttempts > 0 {
		c.ThumbnailMaxAttempts = fc.ThumbnailMaxAttempts
	}
	if fc.ThumbnailWorkers > 0 {
		c.ThumbnailWorkers = fc.ThumbnailWorkers
	}
	if fc.RunWorker != nil {
		c.RunWorker = *fc.RunWorker
	}
	setString(&c.LogLevel, fc.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
