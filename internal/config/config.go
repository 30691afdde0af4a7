package config

import (
	"time"

	"github.com/dmitrijs2005/immuclient/client"
)

// Config holds the connection settings of the demo CLI.
type Config struct {
	Address           string
	Username          string
	Password          string
	Database          string
	ConnectTimeout    time.Duration
	KeepAliveInterval time.Duration
	LogCalls          bool
	PromptPassword    bool
}

// LoadDefaults populates c with the settings of a stock local immudb.
func (c *Config) LoadDefaults() {
	d := client.DefaultOptions()
	c.Address = d.Address
	c.Username = d.Username
	c.Password = d.Password
	c.Database = d.Database
	c.ConnectTimeout = d.ConnectTimeout
	c.KeepAliveInterval = d.KeepAliveInterval
	c.LogCalls = false
	c.PromptPassword = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file (if any) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Options converts the config into client connection options.
func (c *Config) Options() client.Options {
	return client.Options{
		Address:           c.Address,
		Username:          c.Username,
		Password:          c.Password,
		Database:          c.Database,
		ConnectTimeout:    c.ConnectTimeout,
		KeepAliveInterval: c.KeepAliveInterval,
		LogCalls:          c.LogCalls,
	}
}
