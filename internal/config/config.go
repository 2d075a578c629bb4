package config

import (
	"strings"
	"time"

	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds the full application configuration, loaded once at
// startup and passed by reference into every component that needs it.
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	DocStore   DocStoreConfig   `mapstructure:"docstore"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Validation ValidationConfig `mapstructure:"validation"`
}

type DeploymentMode string

const (
	ModeLocal DeploymentMode = "local"
	ModeAPI   DeploymentMode = "api"
)

type DeploymentConfig struct {
	Mode DeploymentMode `mapstructure:"mode"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DocStoreConfig selects the versioned document-store backend.
type DocStoreConfig struct {
	Backend string `mapstructure:"backend"` // "memory" or "redis"
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	UseTLS   bool          `mapstructure:"use_tls"`
	PoolSize int           `mapstructure:"pool_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// ValidationConfig tunes the access-validation pipeline.
type ValidationConfig struct {
	// MaxCASAttempts bounds optimistic-write retry loops on counters.
	MaxCASAttempts int `mapstructure:"max_cas_attempts"`

	// CASBackoffBase is multiplied by the attempt number for linear backoff.
	CASBackoffBase time.Duration `mapstructure:"cas_backoff_base"`

	// PendingRequestTTL is how long an access request may stay pending
	// before the orphan sweep deletes it.
	PendingRequestTTL time.Duration `mapstructure:"pending_request_ttl"`

	// SweepInterval is how often the orphan sweep runs.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`

	// DispatchInterval is how often the dispatcher polls for newly
	// written pending requests.
	DispatchInterval time.Duration `mapstructure:"dispatch_interval"`
}

// NewConfig loads configuration from config.yaml and environment variables
// (DOCUFORGE_ prefix), falling back to defaults.
func NewConfig() (*Configuration, error) {
	// Load .env if present; missing file is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("DOCUFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrValidation)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal configuration").
			Mark(ierr.ErrValidation)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(ModeAPI))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("docstore.backend", "memory")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.timeout", 5*time.Second)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.default_expiration", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
	v.SetDefault("validation.max_cas_attempts", 10)
	v.SetDefault("validation.cas_backoff_base", 50*time.Millisecond)
	v.SetDefault("validation.pending_request_ttl", 5*time.Minute)
	v.SetDefault("validation.sweep_interval", time.Minute)
	v.SetDefault("validation.dispatch_interval", time.Second)
}

// GetDefaultConfig returns an in-memory default configuration, used by the
// global logger bootstrap and tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: "debug"},
		DocStore:   DocStoreConfig{Backend: "memory"},
		Cache: CacheConfig{
			Enabled:           true,
			DefaultExpiration: 5 * time.Minute,
			CleanupInterval:   10 * time.Minute,
		},
		Validation: ValidationConfig{
			MaxCASAttempts:    10,
			CASBackoffBase:    50 * time.Millisecond,
			PendingRequestTTL: 5 * time.Minute,
			SweepInterval:     time.Minute,
			DispatchInterval:  time.Second,
		},
	}
}
