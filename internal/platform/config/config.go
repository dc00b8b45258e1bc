// Package config builds process configuration from the environment so main
// stays lean.
package config

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures everything the process needs at startup.
type Config struct {
	Addr string `env:"AUTHA_ADDR" envDefault:":8080"`

	PostgresDSN string `env:"POSTGRES_DSN,required"`

	Redis RedisConfig `envPrefix:"REDIS_"`

	// JWTSigningKey verifies bearer tokens minted by the signup/login path.
	JWTSigningKey string `env:"JWT_SIGNING_KEY,required"`

	// PIIKey is the base64-encoded 32-byte key protecting email/birthdate
	// at rest. Rotating it invalidates every stored ciphertext.
	PIIKey string `env:"PII_KEY,required"`

	// SnapshotTTL bounds cached profile snapshots.
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL" envDefault:"300s"`
}

// RedisConfig holds cache connection settings.
type RedisConfig struct {
	URL          string        `env:"URL,required"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// FromEnv parses the process environment into a Config.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// DecodePIIKey decodes and length-checks the at-rest encryption key.
func (c Config) DecodePIIKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.PIIKey)
	if err != nil {
		return nil, fmt.Errorf("decode PII key: %w", err)
	}
	return key, nil
}
