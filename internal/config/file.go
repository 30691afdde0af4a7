package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/dmitrijs2005/immuclient/internal/flagx"
	"github.com/dmitrijs2005/immuclient/internal/timex"
)

// FileConfig is a DTO used exclusively for file unmarshalling. Pointer
// fields tell an absent key apart from a zero value.
type FileConfig struct {
	Address           *string         `json:"address" yaml:"address"`
	Username          *string         `json:"username" yaml:"username"`
	Password          *string         `json:"password" yaml:"password"`
	Database          *string         `json:"database" yaml:"database"`
	ConnectTimeout    *timex.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	KeepAliveInterval *timex.Duration `json:"keepalive_interval" yaml:"keepalive_interval"`
	LogCalls          *bool           `json:"log_calls" yaml:"log_calls"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.Address != nil {
		cfg.Address = *fc.Address
	}
	if fc.Username != nil {
		cfg.Username = *fc.Username
	}
	if fc.Password != nil {
		cfg.Password = *fc.Password
	}
	if fc.Database != nil {
		cfg.Database = *fc.Database
	}
	if fc.ConnectTimeout != nil {
		cfg.ConnectTimeout = fc.ConnectTimeout.Duration
	}
	if fc.KeepAliveInterval != nil {
		cfg.KeepAliveInterval = fc.KeepAliveInterval.Duration
	}
	if fc.LogCalls != nil {
		cfg.LogCalls = *fc.LogCalls
	}
}
