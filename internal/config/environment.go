package config

import (
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

// LoadDotEnv reads .env files into the process environment when present
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}
}

// GetEnv retrieves an environment variable or returns a default value if not found
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// ConfigPath returns the directory holding config.yaml, CONFIG_PATH when set
func ConfigPath() string {
	return GetEnv("CONFIG_PATH", ".")
}

// ParseLogLevel maps the LogLevel setting onto slog levels
func ParseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
