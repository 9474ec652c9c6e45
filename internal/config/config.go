package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings shared by the CLI and server binaries.
type Config struct {
	ArchiveBaseURL string
	RequestTimeout time.Duration
	DialTimeout    time.Duration
	MaxBodySize    int64
	SnapshotDelay  time.Duration
	DomainDelay    time.Duration
	SpamThreshold  float64
	ListenAddr     string
}

// Load reads settings from the environment, with an optional .env file.
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		ArchiveBaseURL: getEnv("ARCHIVE_BASE_URL", "https://web.archive.org"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		DialTimeout:    getEnvDuration("DIAL_TIMEOUT", 5*time.Second),
		MaxBodySize:    getEnvInt64("MAX_BODY_SIZE", 5*1024*1024),
		SnapshotDelay:  getEnvDuration("SNAPSHOT_DELAY", 1500*time.Millisecond),
		DomainDelay:    getEnvDuration("DOMAIN_DELAY", 3*time.Second),
		SpamThreshold:  getEnvFloat("SPAM_THRESHOLD", 5.0),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
