// Package config declares the engine service configuration.
package config

import (
	"time"

	"github.com/sparkmatch/engine/internal/configloader"
)

// Default configuration values.
const (
	defaultServiceName      = "engine"
	defaultServiceVersion   = "1.0.0"
	defaultServicePort      = 8080
	defaultDBHost           = "localhost"
	defaultDBPort           = 5432
	defaultDBUser           = "postgres"
	defaultDBName           = "sparkmatch"
	defaultDBSSLMode        = "disable"
	defaultDBMaxConns       = 25
	defaultDBMaxIdleConns   = 5
	defaultRedisAddress     = "localhost:6379"
	defaultSettingsCacheTTL = 30 * time.Second
	defaultLogLevel         = "info"
	defaultGeoWeight        = 80
	defaultInterestWeight   = 50
	defaultClassifyTimeout  = 5 * time.Second
)

// Config holds all configuration for the engine service.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Logging    LoggingConfig    `yaml:"logging"`
	Matching   MatchingConfig   `yaml:"matching"`
	Moderation ModerationConfig `yaml:"moderation"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"ENGINE_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"   yaml:"debug"`
}

// DatabaseConfig holds postgres configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// RedisConfig holds the settings-cache redis configuration.
type RedisConfig struct {
	Address          string        `env:"REDIS_ADDRESS"  yaml:"address"`
	Password         string        `env:"REDIS_PASSWORD" yaml:"password"`
	Database         int           `yaml:"database"`
	SettingsCacheTTL time.Duration `yaml:"settings_cache_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL" yaml:"level"`
	Development bool   `yaml:"development"`
}

// MatchingConfig holds default ranking weights, used when platform settings
// are unavailable. Absent settings fall back here; malformed settings surface
// an error to the caller instead.
type MatchingConfig struct {
	DefaultGeoWeight      int `yaml:"default_geo_weight"`
	DefaultInterestWeight int `yaml:"default_interest_weight"`
}

// ModerationConfig holds moderation pipeline settings.
type ModerationConfig struct {
	// ClassifierURL is the base URL of the remote content classification
	// service.
	ClassifierURL string `env:"CLASSIFIER_URL" yaml:"classifier_url"`
	// ClassifyTimeout bounds the single outbound classify call.
	ClassifyTimeout time.Duration `yaml:"classify_timeout"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return configloader.LoadWithDefaults[Config](path, setDefaults)
}

// Default returns a configuration with every default applied, for running
// without a config file.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setRedisDefaults(&cfg.Redis)
	setLoggingDefaults(&cfg.Logging)
	setMatchingDefaults(&cfg.Matching)
	setModerationDefaults(&cfg.Moderation)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.Address == "" {
		r.Address = defaultRedisAddress
	}
	if r.SettingsCacheTTL == 0 {
		r.SettingsCacheTTL = defaultSettingsCacheTTL
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
}

func setMatchingDefaults(m *MatchingConfig) {
	if m.DefaultGeoWeight == 0 {
		m.DefaultGeoWeight = defaultGeoWeight
	}
	if m.DefaultInterestWeight == 0 {
		m.DefaultInterestWeight = defaultInterestWeight
	}
}

func setModerationDefaults(m *ModerationConfig) {
	if m.ClassifyTimeout == 0 {
		m.ClassifyTimeout = defaultClassifyTimeout
	}
}
