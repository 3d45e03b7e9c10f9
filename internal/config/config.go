package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Load reads the .env file specified by LIFEDASH_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("LIFEDASH_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; the environment may already be populated.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// StoreBackend returns the persistence backend.
// Valid values: badger (default), postgres, memory
func StoreBackend() string {
	b := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND")))
	if b == "" {
		return "badger"
	}
	return b
}

// BadgerPath returns the data directory for the badger backend.
func BadgerPath() string {
	p := os.Getenv("BADGER_PATH")
	if p == "" {
		return "data/lifedash"
	}
	return p
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// APIToken is the static bearer token for /v1 routes. Empty disables auth.
func APIToken() string {
	return os.Getenv("API_TOKEN")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// ZapLevel parses LogLevel, falling back to info on garbage.
func ZapLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(LogLevel())
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// SnapshotInterval is how often the background worker records an alignment
// snapshot. Zero or negative disables the worker. Defaults to 6h.
func SnapshotInterval() time.Duration {
	raw := os.Getenv("SNAPSHOT_INTERVAL")
	if raw == "" {
		return 6 * time.Hour
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 6 * time.Hour
	}
	return d
}

// SnapshotHistoryLimit caps the stored snapshot history. Defaults to 180.
func SnapshotHistoryLimit() int {
	n, err := strconv.Atoi(os.Getenv("SNAPSHOT_HISTORY_LIMIT"))
	if err != nil || n <= 0 {
		return 180
	}
	return n
}

// NewLogger builds a production zap logger at LogLevel.
func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ZapLevel())
	return cfg.Build()
}
