// Package config assembles server configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Server holds everything cmd/coverage-server needs to start.
type Server struct {
	// Addr is the listen address of the HTTP API.
	Addr string
	// DBPath is the SQLite file backing the dataset store.
	DBPath string
	// QueryTimeout bounds one route query.
	QueryTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// Load reads the server configuration, loading a .env file first when
// one is present (absence is not an error).
func Load() Server {
	_ = godotenv.Load()

	return Server{
		Addr:            getEnv("PLANNER_ADDR", ":8080"),
		DBPath:          getEnv("PLANNER_DB_PATH", "datasets.db"),
		QueryTimeout:    getDuration("PLANNER_QUERY_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDuration("PLANNER_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
