// Package redis provides a Redis-backed episodic memory store.
package redis

import "time"

// Config holds the connection settings the storage section of the runtime
// configuration exposes. Pool tuning beyond PoolSize uses client defaults.
type Config struct {
	// Address is the server address (host:port).
	Address string

	// Password authenticates the connection when set.
	Password string

	// DB selects the database index.
	DB int

	// KeyPrefix namespaces every key the store writes.
	KeyPrefix string

	// PoolSize caps socket connections.
	PoolSize int

	// ConnectTimeout bounds dialing and the startup ping.
	ConnectTimeout time.Duration
}

// DefaultConfig returns settings for a local single-node server.
func DefaultConfig() Config {
	return Config{
		Address:        "localhost:6379",
		KeyPrefix:      "autopilot:",
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
	}
}

// ConfigOption overrides one connection setting.
type ConfigOption func(*Config)

// WithAddress points the store at a different server.
func WithAddress(addr string) ConfigOption {
	return func(c *Config) {
		c.Address = addr
	}
}

// WithAuth sets the password and database index.
func WithAuth(password string, db int) ConfigOption {
	return func(c *Config) {
		c.Password = password
		c.DB = db
	}
}

// WithNamespace replaces the key prefix.
func WithNamespace(prefix string) ConfigOption {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// WithPoolSize caps socket connections.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithConnectTimeout bounds dialing and the startup ping.
func WithConnectTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.ConnectTimeout = d
	}
}
