package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every runtime setting. Values come from config.yml,
// overridable via environment variables.
type Config struct {
	LogLevel          string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string        `yaml:"http-port" env:"HTTP_PORT" env-default:"8080"`
	Redis             Redis         `yaml:"redis"`
	SQLitePath        string        `yaml:"sqlite-path" env:"SQLITE_PATH" env-default:"./tictacroom.db"`
	JWTSecret         string        `yaml:"jwt-secret" env:"JWT_SECRET" env-default:"dev-only-secret"`
	TokenTTL          time.Duration `yaml:"token-ttl" env:"TOKEN_TTL" env-default:"72h"`
	RoomSweepInterval time.Duration `yaml:"room-sweep-interval" env:"ROOM_SWEEP_INTERVAL" env-default:"60s"`
	HistoryQueueSize  int           `yaml:"history-queue-size" env:"HISTORY_QUEUE_SIZE" env-default:"64"`
	OTLPEndpoint      string        `yaml:"otlp-endpoint" env:"OTLP_ENDPOINT" env-default:"otel-collector:4317"`
}

// Redis holds the Redis connection settings.
type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Addr returns the host:port address of the Redis server.
func (r *Redis) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// MustLoad reads the config file at path, falling back to environment
// variables and defaults when the file does not exist.
func MustLoad(path string) *Config {
	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, config); err != nil {
			panic(fmt.Errorf("unable to load config file: %w", err))
		}
		return config
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		panic(fmt.Errorf("unable to read config from environment: %w", err))
	}
	return config
}
