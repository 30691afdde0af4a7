package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "127.0.0.1:3322", "-u", "admin", "-d", "bank", "-t", "3", "-k", "10", "-v", "-W"},
			expected: &Config{
				Address: "127.0.0.1:3322", Username: "admin", Database: "bank",
				ConnectTimeout: 3 * time.Second, KeepAliveInterval: 10 * time.Second,
				LogCalls: true, PromptPassword: true,
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"cmd", "-x", "1", "-a", "h:1"},
			expected: &Config{Address: "h:1"},
		},
		{name: "incorrect keepalive", args: []string{"cmd", "-k", "abc"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			err := parseFlags(config)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
