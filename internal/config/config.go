package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the API server.
type Config struct {
	HTTPPort string
	Database DatabaseConfig
	Redis    RedisConfig
	LogStore LogStoreConfig
	Metrics  MetricsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LogStoreConfig holds retention settings for the request log store
type LogStoreConfig struct {
	// MaxEntries bounds the global index and each per-level list.
	MaxEntries int
	// EntryTTL bounds how long entries stay in the global index.
	EntryTTL time.Duration
	// CorrelationTTL bounds the per-request lists independently.
	CorrelationTTL time.Duration
	// DefaultQueryWindow is used when a time-range query gives no bounds.
	DefaultQueryWindow time.Duration
	// AsyncBufferSize bounds the in-process queue of pending appends.
	AsyncBufferSize int
}

// MetricsConfig holds settings for the in-process metrics aggregator
type MetricsConfig struct {
	// CountFailures controls whether requests that panic still count
	// toward traffic metrics.
	CountFailures bool
	// RecentWindow is how long a request marker stays in the
	// "requests last hour" view.
	RecentWindow time.Duration
}

func getEnvInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getEnvString(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	port := getEnvString("HTTP_PORT", "8080")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		HTTPPort: port,
		Database: DatabaseConfig{
			URL:             dbURL,
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 1*time.Minute),
		},
		Redis: RedisConfig{
			Address:      getEnvString("REDIS_ADDRESS", "localhost:6379"),
			Password:     getEnvString("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		LogStore: LogStoreConfig{
			MaxEntries:         getEnvInt("LOG_STORE_MAX_ENTRIES", 10000),
			EntryTTL:           getEnvDuration("LOG_STORE_ENTRY_TTL", 7*24*time.Hour),
			CorrelationTTL:     getEnvDuration("LOG_STORE_CORRELATION_TTL", 24*time.Hour),
			DefaultQueryWindow: getEnvDuration("LOG_STORE_DEFAULT_QUERY_WINDOW", 1*time.Hour),
			AsyncBufferSize:    getEnvInt("LOG_STORE_ASYNC_BUFFER", 1000),
		},
		Metrics: MetricsConfig{
			CountFailures: getEnvBool("METRICS_COUNT_FAILURES", true),
			RecentWindow:  getEnvDuration("METRICS_RECENT_WINDOW", 1*time.Hour),
		},
	}

	return cfg, nil
}
