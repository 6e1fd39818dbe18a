// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/trace"
)

const (
	defaultHTTPHost        = "127.0.0.1"
	defaultHTTPPort        = 9650
	defaultMaxBatchSize    = 1_024
	defaultShutdownTimeout = 10 * time.Second
	defaultLogMaxSize      = 8 // MB
	defaultLogMaxFiles     = 7
	defaultLogMaxAge       = 30 // days
)

type Config struct {
	// Logging
	LogLevel        logging.Level `json:"logLevel"`
	LogDisplayLevel logging.Level `json:"logDisplayLevel"`
	LogDir          string        `json:"logDir"`
	LogMaxSize      int           `json:"logMaxSize"`
	LogMaxFiles     int           `json:"logMaxFiles"`
	LogMaxAge       int           `json:"logMaxAge"`
	LogCompress     bool          `json:"logCompress"`

	// Storage
	//
	// State is kept in memory when [DatabaseDir] is empty.
	DatabaseDir string        `json:"databaseDir"`
	Pebble      pebble.Config `json:"pebble"`

	// Execution
	Parallelism  int `json:"parallelism"`
	MaxBatchSize int `json:"maxBatchSize"`

	// API
	HTTPHost          string        `json:"httpHost"`
	HTTPPort          uint16        `json:"httpPort"`
	AllowedOrigins    []string      `json:"allowedOrigins"`
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout"`

	// Tracing
	Trace trace.Config `json:"trace"`
}

// New returns the default config overridden by any fields set in [b].
func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefaults()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) setDefaults() {
	c.LogLevel = logging.Info
	c.LogDisplayLevel = logging.Info
	c.LogMaxSize = defaultLogMaxSize
	c.LogMaxFiles = defaultLogMaxFiles
	c.LogMaxAge = defaultLogMaxAge
	c.Pebble = pebble.NewDefaultConfig()
	c.Parallelism = runtime.NumCPU()
	c.MaxBatchSize = defaultMaxBatchSize
	c.HTTPHost = defaultHTTPHost
	c.HTTPPort = defaultHTTPPort
	c.AllowedOrigins = []string{"*"}
	c.ReadHeaderTimeout = 30 * time.Second
	c.ShutdownTimeout = defaultShutdownTimeout
	c.Trace = trace.Config{
		AppName:         "countervm",
		Agent:           "countervm",
		TraceSampleRate: 0.1,
	}
}

// Verify rejects configs the node cannot run with.
func (c *Config) Verify() error {
	if c.Parallelism <= 0 {
		return fmt.Errorf("%w: parallelism %d", ErrInvalidConfig, c.Parallelism)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("%w: maxBatchSize %d", ErrInvalidConfig, c.MaxBatchSize)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdownTimeout %s", ErrInvalidConfig, c.ShutdownTimeout)
	}
	return nil
}

// Address is the host:port the API listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}
