package rak811

import (
	"errors"
	"log/slog"
	"runtime"
	"time"
)

// Config holds Driver settings. Build one with NewConfigBuilder; the zero
// Config is valid and uses the defaults.
type Config struct {
	logger     *slog.Logger
	pollBudget int
	resetHold  time.Duration
	idle       func()
}

func (c *Config) setDefaults() {
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.pollBudget == 0 {
		c.pollBudget = 16
	}
	if c.resetHold == 0 {
		c.resetHold = 10 * time.Millisecond
	}
	if c.idle == nil {
		c.idle = runtime.Gosched
	}
}

func (c *Config) validate() error {
	if c.pollBudget < 0 {
		return errors.New("rak811: poll budget must not be negative")
	}
	if c.resetHold < 0 {
		return errors.New("rak811: reset hold must not be negative")
	}
	return nil
}

// ConfigBuilder builds a Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder returns a builder seeded with the defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithLogger sets the logger for wire traffic and state changes.
func (b *ConfigBuilder) WithLogger(logger *slog.Logger) *ConfigBuilder {
	b.config.logger = logger
	return b
}

// WithPollBudget sets how many times the transport is drained before each
// decode attempt while waiting for a reply.
func (b *ConfigBuilder) WithPollBudget(n int) *ConfigBuilder {
	b.config.pollBudget = n
	return b
}

// WithResetHold sets how long Initialize holds the reset line low.
func (b *ConfigBuilder) WithResetHold(d time.Duration) *ConfigBuilder {
	b.config.resetHold = d
	return b
}

// WithIdle sets the function called between poll cycles while waiting for a
// reply. It defaults to runtime.Gosched.
func (b *ConfigBuilder) WithIdle(idle func()) *ConfigBuilder {
	b.config.idle = idle
	return b
}

// Build validates the settings and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}
