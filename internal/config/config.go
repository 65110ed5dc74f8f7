package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all process configuration. Values come from environment
// variables with the LEXORA_ prefix; every field has a development default
// except the secrets, which must be provided.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Documents DocumentsConfig `mapstructure:"documents"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds the rate-limit counter store settings. An empty Addr
// disables Redis and the limiter falls back to the in-process bucket.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// RateLimitConfig holds fixed-window limiter settings.
type RateLimitConfig struct {
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`
}

// DocumentsConfig holds document-at-rest encryption settings.
type DocumentsConfig struct {
	// EncryptionKey is the hex-encoded 32-byte AES key.
	EncryptionKey string `mapstructure:"encryption_key"`
	// KeyID identifies the active key in stored metadata.
	KeyID string `mapstructure:"key_id"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("lexora")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "lexora")
	v.SetDefault("jwt.access_ttl", time.Hour)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)

	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("ratelimit.max_requests", 120)

	v.SetDefault("documents.encryption_key", "")
	v.SetDefault("documents.key_id", "primary")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: LEXORA_JWT_SECRET is required")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("config: token TTLs must be positive")
	}
	if c.RateLimit.Window <= 0 || c.RateLimit.MaxRequests <= 0 {
		return errors.New("config: rate limit window and max must be positive")
	}
	if key := strings.TrimSpace(c.Documents.EncryptionKey); key != "" {
		raw, err := hex.DecodeString(key)
		if err != nil {
			return fmt.Errorf("config: document encryption key is not hex: %w", err)
		}
		if len(raw) != 32 {
			return fmt.Errorf("config: document encryption key must be 32 bytes, got %d", len(raw))
		}
	}
	return nil
}

// DocumentKey decodes the configured AES key. Returns nil when encryption at
// rest is not configured.
func (c *Config) DocumentKey() []byte {
	key := strings.TrimSpace(c.Documents.EncryptionKey)
	if key == "" {
		return nil
	}
	raw, err := hex.DecodeString(key)
	if err != nil {
		return nil
	}
	return raw
}
