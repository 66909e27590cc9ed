package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "github.com/arez-sajeel/Project-Green/libs/config"
)

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port string `yaml:"port" env:"ENERGY_HTTP_PORT"`
}

// DatabaseConfig holds Postgres settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"ENERGY_POSTGRES_DSN"`
}

// RedisConfig holds cache settings. Disabling Redis turns off the analytics
// cache and live-stream snapshots but nothing else.
type RedisConfig struct {
	Enabled           bool   `yaml:"enabled" env:"ENERGY_REDIS_ENABLED"`
	Addr              string `yaml:"addr" env:"ENERGY_REDIS_ADDR"`
	Password          string `yaml:"password" env:"ENERGY_REDIS_PASSWORD"`
	DB                int    `yaml:"db" env:"ENERGY_REDIS_DB"`
	AnalyticsTTLSec   int    `yaml:"analyticsTTLSeconds" env:"ENERGY_REDIS_ANALYTICS_TTL"`
	LastReadingTTLSec int    `yaml:"lastReadingTTLSeconds" env:"ENERGY_REDIS_LAST_READING_TTL"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret           string `yaml:"secret" env:"ENERGY_JWT_SECRET"`
	ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"ENERGY_JWT_EXPIRES_MINUTES"`
}

// MQTTConfig holds meter ingest settings. With Embedded set the process
// runs its own broker on EmbeddedAddr and subscribes to itself.
type MQTTConfig struct {
	Enabled      bool   `yaml:"enabled" env:"ENERGY_MQTT_ENABLED"`
	Broker       string `yaml:"broker" env:"ENERGY_MQTT_BROKER"`
	ClientID     string `yaml:"clientId" env:"ENERGY_MQTT_CLIENT_ID"`
	Username     string `yaml:"username" env:"ENERGY_MQTT_USERNAME"`
	Password     string `yaml:"password" env:"ENERGY_MQTT_PASSWORD"`
	Embedded     bool   `yaml:"embedded" env:"ENERGY_MQTT_EMBEDDED"`
	EmbeddedAddr string `yaml:"embeddedAddr" env:"ENERGY_MQTT_EMBEDDED_ADDR"`
}

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{Port: "8080"},
		Redis: RedisConfig{
			Enabled:           true,
			Addr:              "localhost:6379",
			AnalyticsTTLSec:   300,
			LastReadingTTLSec: 86400,
		},
		JWT: JWTConfig{ExpiresInMinutes: 30},
		MQTT: MQTTConfig{
			Broker:       "localhost:1883",
			ClientID:     "energy-api",
			EmbeddedAddr: ":1883",
		},
	}

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.ExpiresInMinutes <= 0 {
		cfg.JWT.ExpiresInMinutes = 30
	}
	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		return nil, errors.New("config: redis addr is required when redis is enabled")
	}
	if cfg.MQTT.Enabled && !cfg.MQTT.Embedded && cfg.MQTT.Broker == "" {
		return nil, errors.New("config: mqtt broker is required when mqtt is enabled")
	}

	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// AnalyticsTTL returns the analytics cache TTL as a duration.
func (c *Config) AnalyticsTTL() time.Duration {
	if c.Redis.AnalyticsTTLSec <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Redis.AnalyticsTTLSec) * time.Second
}

// LastReadingTTL returns the live snapshot TTL as a duration.
func (c *Config) LastReadingTTL() time.Duration {
	if c.Redis.LastReadingTTLSec <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.LastReadingTTLSec) * time.Second
}

// BrokerAddress is the broker the subscriber should dial: the embedded
// listener when one is enabled, the external broker otherwise.
func (c *Config) BrokerAddress() string {
	if c.MQTT.Embedded {
		addr := c.MQTT.EmbeddedAddr
		if strings.HasPrefix(addr, ":") {
			return "localhost" + addr
		}
		return addr
	}
	return c.MQTT.Broker
}
