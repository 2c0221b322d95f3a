// Package config holds the tunable settings for the session layer and its
// logging. Settings load from TOML; absent fields take the historical
// defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"example.com/hsession/internal/logger"
)

// Default limits. The read/write buffer limits bound how much ingress/egress
// data a session will buffer before signalling backpressure.
const (
	DefaultReadBufLimit        uint32 = 65536
	DefaultWriteBufLimit       uint32 = 65536
	DefaultMaxReadBufferSize   uint32 = 4000
	DefaultEgressBodySizeLimit uint32 = 4096
)

// Config is the top-level configuration structure.
type Config struct {
	Session SessionConfig `toml:"session"`
	Logging logger.Config `toml:"logging"`
}

// SessionConfig holds per-connection session settings.
type SessionConfig struct {
	// ReadBufLimit is the number of ingress body bytes a session allows its
	// transactions to buffer before it reports that reads should pause.
	ReadBufLimit uint32 `toml:"read_buf_limit"`
	// WriteBufLimit is the egress analogue, consumed by the transport layer.
	WriteBufLimit uint32 `toml:"write_buf_limit"`
	// MaxReadBufferSize caps the size of a single read buffer handed to the
	// codec.
	MaxReadBufferSize uint32 `toml:"max_read_buffer_size"`
	// EgressBodySizeLimit caps how much body a transaction egresses per
	// scheduling pass.
	EgressBodySizeLimit uint32 `toml:"egress_body_size_limit"`
}

// Default returns a Config populated with the default limits and an
// info-level console logger.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			ReadBufLimit:        DefaultReadBufLimit,
			WriteBufLimit:       DefaultWriteBufLimit,
			MaxReadBufferSize:   DefaultMaxReadBufferSize,
			EgressBodySizeLimit: DefaultEgressBodySizeLimit,
		},
		Logging: logger.Config{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads a TOML config file from path. Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the session layer cannot
// operate with.
func (c *Config) Validate() error {
	if c.Session.ReadBufLimit == 0 {
		return fmt.Errorf("session.read_buf_limit must be greater than zero")
	}
	if c.Session.WriteBufLimit == 0 {
		return fmt.Errorf("session.write_buf_limit must be greater than zero")
	}
	if c.Session.MaxReadBufferSize == 0 {
		return fmt.Errorf("session.max_read_buffer_size must be greater than zero")
	}
	return nil
}
