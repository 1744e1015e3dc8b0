package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brocaar/lorawan"
	"gopkg.in/yaml.v3"
	"i4.energy/across/rak811gw/at"
)

// Config holds the application configuration
type Config struct {
	// BindAddress is the address the server listens on (e.g. "0.0.0.0:8080")
	BindAddress string `yaml:"bind_address"`
	// SerialPort is the path to the module's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string `yaml:"serial_port"`
	// BaudRate is the baud rate for serial communication with the module (e.g. 115200)
	BaudRate int `yaml:"baud_rate"`
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string `yaml:"log_level"`
	// PollInterval is how often queued downlinks are collected
	PollInterval time.Duration `yaml:"poll_interval"`
	// Console enables the interactive command console on stdin
	Console bool `yaml:"console"`
	// LoRa holds the network settings and device identities
	LoRa LoRaConfig `yaml:"lora"`
}

// LoRaConfig holds the LoRaWAN settings applied at start-up
type LoRaConfig struct {
	Region   at.Region      `yaml:"region"`
	JoinMode at.ConnectMode `yaml:"join_mode"`
	// Ports lists the application ports polled for downlinks
	Ports []uint8 `yaml:"ports"`

	// OTAA identities
	DevEUI lorawan.EUI64     `yaml:"dev_eui"`
	AppEUI lorawan.EUI64     `yaml:"app_eui"`
	AppKey lorawan.AES128Key `yaml:"app_key"`

	// ABP identities
	DevAddr lorawan.DevAddr   `yaml:"dev_addr"`
	NwkSKey lorawan.AES128Key `yaml:"nwks_key"`
	AppSKey lorawan.AES128Key `yaml:"apps_key"`
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	if config.LoRa.Region == at.RegionUnknown {
		return nil, errors.New("config: unknown LoRa region")
	}
	if config.PollInterval <= 0 {
		return nil, errors.New("config: poll interval must be positive")
	}
	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BindAddress = "0.0.0.0:8080"
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.PollInterval = time.Second
		c.LoRa.Region = at.EU868
		c.LoRa.JoinMode = at.OTAA
		c.LoRa.Ports = []uint8{1}
		return nil
	}
}

// WithFile loads configuration from a YAML file. An empty path is ignored.
func WithFile(path string) ConfigOption {
	return func(c *Config) error {
		if path == "" {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
			c.BindAddress = addr
		}

		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if region := os.Getenv("LORA_REGION"); region != "" {
			c.LoRa.Region = at.ParseRegion(region)
		}

		if mode := os.Getenv("LORA_JOIN_MODE"); mode != "" {
			c.LoRa.JoinMode = at.ParseConnectMode(mode)
		}

		if ports := os.Getenv("LORA_PORTS"); ports != "" {
			p, err := parsePorts(ports)
			if err != nil {
				return fmt.Errorf("LORA_PORTS: %w", err)
			}
			c.LoRa.Ports = p
		}

		identities := []struct {
			env    string
			target interface{ UnmarshalText([]byte) error }
		}{
			{"LORA_DEV_EUI", &c.LoRa.DevEUI},
			{"LORA_APP_EUI", &c.LoRa.AppEUI},
			{"LORA_APP_KEY", &c.LoRa.AppKey},
			{"LORA_DEV_ADDR", &c.LoRa.DevAddr},
			{"LORA_NWKS_KEY", &c.LoRa.NwkSKey},
			{"LORA_APPS_KEY", &c.LoRa.AppSKey},
		}
		for _, id := range identities {
			if v := os.Getenv(id.env); v != "" {
				if err := id.target.UnmarshalText([]byte(v)); err != nil {
					return fmt.Errorf("%s: %w", id.env, err)
				}
			}
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		var err error
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "bind-address":
				c.BindAddress = f.Value.String()
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			case "console":
				c.Console = f.Value.String() == "true"
			case "poll-interval":
				d, perr := time.ParseDuration(f.Value.String())
				if perr != nil {
					err = fmt.Errorf("poll-interval: %w", perr)
					return
				}
				c.PollInterval = d
			}
		})
		return err
	}
}

func parsePorts(s string) ([]uint8, error) {
	var ports []uint8
	for _, field := range strings.Split(s, ",") {
		p, err := strconv.ParseUint(strings.TrimSpace(field), 10, 8)
		if err != nil {
			return nil, err
		}
		ports = append(ports, uint8(p))
	}
	return ports, nil
}
