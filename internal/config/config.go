package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/spf13/viper"
)

const (
	StorageMongoDB = "mongodb"
	StorageMemory  = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server         ServerConfig
	MongoDB        MongoDBConfig
	JWT            JWTConfig
	Wheel          WheelConfig
	Reconciliation ReconciliationConfig
	Storage        StorageConfig
	LogLevel       string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port                   string
	AllowedHosts           []string
	ShutdownTimeoutSeconds int
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI            string
	Database       string
	TimeoutSeconds int
}

// JWTConfig holds JWT-specific configuration. The secret is shared with the
// identity provider that signs attendee tokens.
type JWTConfig struct {
	Secret    string
	Issuer    string
	ExpiresIn int // seconds
}

// WheelConfig holds the prize wheel settings
type WheelConfig struct {
	SpinCost          int
	PresentationMs    int
	VotePoints        int
	SpinRatePerSecond float64
	SpinBurst         int
	Prizes            []models.PrizeDefinition
}

// ReconciliationConfig holds the nightly balance check settings
type ReconciliationConfig struct {
	Enabled      bool
	Schedule     string // cron spec
	GraceMinutes int
}

// StorageConfig selects the repository implementation
type StorageConfig struct {
	Driver string
}

// PresentationDelay returns the wheel animation wait
func (w WheelConfig) PresentationDelay() time.Duration {
	return time.Duration(w.PresentationMs) * time.Millisecond
}

// Grace returns how long an account must be idle before it is reconciled
func (r ReconciliationConfig) Grace() time.Duration {
	return time.Duration(r.GraceMinutes) * time.Minute
}

// Load loads configuration from a config file in paths, then environment
// variables such as WHEEL_SPINCOST or JWT_SECRET
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT.Secret is required")
	}
	if c.Wheel.SpinCost <= 0 {
		return fmt.Errorf("Wheel.SpinCost must be positive, got %d", c.Wheel.SpinCost)
	}
	if c.Wheel.PresentationMs < 0 || c.Wheel.VotePoints < 0 {
		return errors.New("Wheel.PresentationMs and Wheel.VotePoints must not be negative")
	}
	switch c.Storage.Driver {
	case StorageMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MongoDB.URI is required for the mongodb storage driver")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedHosts", []string{"http://localhost:3000"})
	v.SetDefault("Server.ShutdownTimeoutSeconds", 5)
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "event-wheel")
	v.SetDefault("MongoDB.TimeoutSeconds", 10)
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.Issuer", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Wheel.SpinCost", 20)
	v.SetDefault("Wheel.PresentationMs", 3000)
	v.SetDefault("Wheel.VotePoints", 10)
	v.SetDefault("Wheel.SpinRatePerSecond", 1.0)
	v.SetDefault("Wheel.SpinBurst", 3)
	v.SetDefault("Reconciliation.Enabled", true)
	v.SetDefault("Reconciliation.Schedule", "0 3 * * *")
	v.SetDefault("Reconciliation.GraceMinutes", 10)
	v.SetDefault("Storage.Driver", StorageMongoDB)
	v.SetDefault("LogLevel", "info")
}
