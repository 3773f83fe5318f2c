package config

import (
	"os"
	"strconv"
)

// Config holds all service configuration loaded from environment variables.
// DatabaseURL and JWTSecret are mandatory; startup fails loudly without them.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string
	AdminKey    string
	StaticDir   string

	ResetHour      int // wall-clock hour of the nightly auto-deactivation
	ResetUTCOffset int // fixed offset the hour is interpreted in
}

func Load() *Config {
	return &Config{
		Port:           getenv("PORT", "3000"),
		DatabaseURL:    getenv("DATABASE_URL", ""),
		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPass:      getenv("REDIS_PASSWORD", ""),
		AdminKey:       getenv("ADMIN_KEY", ""),
		StaticDir:      getenv("STATIC_DIR", ""),
		ResetHour:      getenvInt("RESET_HOUR", 7),
		ResetUTCOffset: getenvInt("RESET_UTC_OFFSET", 7),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
