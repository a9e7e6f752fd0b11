package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-g string   gRPC health bind address, empty disables it
//	-d string   PostgreSQL DSN
//	-r string   Redis address
//	-f string   content folder path
//	-s string   storage backend: local or s3
//	-q string   queue backend: redis or memory
//	-t int      session TTL, minutes
//	-w int      thumbnail workers
//	-m int      thumbnail max attempts per job
//	-l string   log level
//	-worker     run thumbnail workers in-process (use -worker=false to disable)
//
// Args are filtered first with flagx.FilterArgs so that flags owned by other
// components (-c/-config) do not break parsing.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-r", "-f", "-s", "-q", "-t", "-w", "-m", "-l", "-worker"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port of the HTTP API")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port of the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.FolderPath, "f", config.FolderPath, "folder for stored files")
	fs.StringVar(&config.StorageBackend, "s", config.StorageBackend, "storage backend (local|s3)")
	fs.StringVar(&config.QueueBackend, "q", config.QueueBackend, "queue backend (redis|memory)")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session ttl (in minutes)")

	fs.IntVar(&config.ThumbnailWorkers, "w", config.ThumbnailWorkers, "thumbnail workers")
	fs.IntVar(&config.ThumbnailMaxAttempts, "m", config.ThumbnailMaxAttempts, "thumbnail attempts per job")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.RunWorker, "worker", config.RunWorker, "run thumbnail workers in-process")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
