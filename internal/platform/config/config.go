package config

import (
	"os"
	"strconv"
	"time"
)

// Storage backends selectable at startup. Memory is the default so the binary
// runs with zero external services; sqlite covers the single-box offline
// deployment; postgres is for a shared records office installation.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr            string
	StoreBackend    string
	DatabaseURL     string
	SQLitePath      string
	RedisURL        string
	CatalogPath     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Numbering       Numbering
}

// Numbering holds the counter floors. The floors mirror the paper registry
// this system replaced: signals books start at 1, common and confidential
// books continue from the 40000 range.
type Numbering struct {
	SignalsProtocolFloor int64
	DefaultProtocolFloor int64
	DraftFloor           int64
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:            envOr("PROTOKOLLO_ADDR", ":8080"),
		StoreBackend:    envOr("PROTOKOLLO_STORE", BackendMemory),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      envOr("PROTOKOLLO_SQLITE_PATH", "data/protokollo.db"),
		RedisURL:        os.Getenv("REDIS_URL"),
		CatalogPath:     os.Getenv("PROTOKOLLO_OFFICES_FILE"),
		RequestTimeout:  envDurationOr("PROTOKOLLO_REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: envDurationOr("PROTOKOLLO_SHUTDOWN_TIMEOUT", 10*time.Second),
		Numbering: Numbering{
			SignalsProtocolFloor: envInt64Or("PROTOKOLLO_SIGNALS_PROTOCOL_FLOOR", 1),
			DefaultProtocolFloor: envInt64Or("PROTOKOLLO_PROTOCOL_FLOOR", 40001),
			DraftFloor:           envInt64Or("PROTOKOLLO_DRAFT_FLOOR", 1),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
