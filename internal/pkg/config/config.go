package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// PublicBaseURL is the externally reachable origin used in verification
	// and reset links sent by email.
	PublicBaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`

	// HistoryLimit caps the number of history entries returned per project.
	HistoryLimit int `env:"HISTORY_LIMIT, default=100"`

	// DeliveryWorkers sizes the email dispatcher worker pool.
	DeliveryWorkers int `env:"DELIVERY_WORKERS, default=4"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=citizen_projects"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type StorageConfig struct {
	URL     string `env:"SUPABASE_URL"`
	AnonKey string `env:"SUPABASE_ANON_KEY"`
	Bucket  string `env:"SUPABASE_BUCKET, default=project-documents"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
