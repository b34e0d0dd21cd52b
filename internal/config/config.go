package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix              = "NOTEWELL"
	defaultHTTPAddress     = "0.0.0.0:8080"
	defaultDatabasePath    = "notewell.db"
	defaultLogLevel        = "info"
	defaultCacheAddress    = "127.0.0.1:6379"
	defaultCacheTTLSeconds = 3600
	defaultTokenTTLHours   = 7 * 24
)

// AppConfig captures runtime configuration for the API server. The signing
// secret and the cache flag are read once here and stay read-only for the
// process lifetime.
type AppConfig struct {
	HTTPAddress   string
	DatabasePath  string
	LogLevel      string
	SigningSecret string
	TokenTTL      time.Duration
	CacheEnabled  bool
	CacheAddress  string
	CacheTTL      time.Duration
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper
// instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("auth.token_ttl_hours", defaultTokenTTLHours)
	configViper.SetDefault("cache.enabled", false)
	configViper.SetDefault("cache.address", defaultCacheAddress)
	configViper.SetDefault("cache.ttl_seconds", defaultCacheTTLSeconds)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:   configViper.GetString("http.address"),
		DatabasePath:  configViper.GetString("database.path"),
		LogLevel:      configViper.GetString("log.level"),
		SigningSecret: configViper.GetString("auth.signing_secret"),
		TokenTTL:      time.Duration(configViper.GetInt("auth.token_ttl_hours")) * time.Hour,
		CacheEnabled:  configViper.GetBool("cache.enabled"),
		CacheAddress:  configViper.GetString("cache.address"),
		CacheTTL:      time.Duration(configViper.GetInt("cache.ttl_seconds")) * time.Second,
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.SigningSecret) == "" {
		return fmt.Errorf("auth.signing_secret is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.CacheEnabled && strings.TrimSpace(c.CacheAddress) == "" {
		return fmt.Errorf("cache.address is required when cache.enabled is set")
	}
	return nil
}
