package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Admin    AdminConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type AdminConfig struct {
	Password string
}

// RedisConfig enables the purchase rate limiter when Addr is set.
type RedisConfig struct {
	Addr string
}

// PostgresConfig enables the write-through sales archive when DSN is set.
type PostgresConfig struct {
	DSN string
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	// The admin password gates every privileged mutation; running without
	// one would leave draws, clears and the schedule wide open.
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		return nil, fmt.Errorf("%s: missing ADMIN_PASSWORD", op)
	}

	return &Config{
		Server: ServerConfig{
			Host: serverHost,
			Port: serverPort,
		},
		Admin: AdminConfig{
			Password: adminPassword,
		},
		Redis: RedisConfig{
			Addr: os.Getenv("REDIS_ADDR"),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
	}, nil
}
