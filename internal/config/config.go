package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the settings for both the API server and the worker.
type Config struct {
	ServerPort        int    `envconfig:"SERVER_PORT" default:"5000"`
	DBHost            string `envconfig:"DB_HOST" default:"localhost"`
	DBPort            int    `envconfig:"DB_PORT" default:"27017"`
	DBName            string `envconfig:"DB_DATABASE" default:"files_manager"`
	RedisAddr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	FolderPath        string `envconfig:"FOLDER_PATH" default:"/tmp/files_manager"`
	WorkerConcurrency int    `envconfig:"WORKER_CONCURRENCY" default:"4"`
}

// Load reads the configuration from environment variables.
func Load(cfg *Config) error {
	return envconfig.Process("", cfg)
}

// MongoURI builds the connection string for the document store.
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb://%s:%d/%s", c.DBHost, c.DBPort, c.DBName)
}
