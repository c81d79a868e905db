package redis

import (
	"errors"
	"time"

	"github.com/mcoot/holdem/internal/storage"
)

// Config configures the Redis table directory and hand history
type Config struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration

	// KeyPrefix namespaces every key, so several servers can share a database
	KeyPrefix string

	// Table entries are refreshed on every save; an abandoned table
	// disappears after TableTTL.
	TableTTL time.Duration
	HandTTL  time.Duration

	// HandHistoryLimit caps the hand records kept per table
	HandHistoryLimit int
}

// DefaultConfig returns the settings for a local Redis
func DefaultConfig() Config {
	return Config{
		URL:              "redis://localhost:6379",
		PoolSize:         10,
		MinIdleConns:     2,
		DialTimeout:      5 * time.Second,
		KeyPrefix:        "holdem",
		TableTTL:         24 * time.Hour,
		HandTTL:          7 * 24 * time.Hour,
		HandHistoryLimit: storage.HandHistoryLimit,
	}
}

// Validate rejects settings the store cannot run with
func (c Config) Validate() error {
	switch {
	case c.URL == "":
		return errors.New("redis: url is required")
	case c.KeyPrefix == "":
		return errors.New("redis: key prefix is required")
	case c.HandHistoryLimit <= 0:
		return errors.New("redis: hand history limit must be positive")
	}
	return nil
}
