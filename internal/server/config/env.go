package config

// Environment variables understood by parseEnv.
const (
	EnvPort          = "PORT"
	EnvDatabaseDSN   = "DB_DSN"
	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvFolderPath    = "FOLDER_PATH"
)

func parseEnv(config *Config, lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvPort); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	if v, ok := lookupEnv(EnvDatabaseDSN); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookupEnv(EnvRedisAddr); ok && v != "" {
		config.RedisAddr = v
	}
	if v, ok := lookupEnv(EnvRedisPassword); ok {
		config.RedisPassword = v
	}
	if v, ok := lookupEnv(EnvFolderPath); ok && v != "" {
		config.FolderPath = v
	}
}
