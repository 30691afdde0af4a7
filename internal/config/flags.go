package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/immuclient/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-d", "-t", "-k", "-v", "-W"})

	fs := flag.NewFlagSet("immucli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Address, "a", cfg.Address, "host:port of the immudb server")
	fs.StringVar(&cfg.Username, "u", cfg.Username, "user name")
	fs.StringVar(&cfg.Database, "d", cfg.Database, "database")
	timeout := fs.Int("t", int(cfg.ConnectTimeout.Seconds()), "connect timeout (in seconds)")
	keepalive := fs.Int("k", int(cfg.KeepAliveInterval.Seconds()), "session keepalive interval (in seconds)")
	fs.BoolVar(&cfg.LogCalls, "v", cfg.LogCalls, "log every RPC")
	fs.BoolVar(&cfg.PromptPassword, "W", cfg.PromptPassword, "prompt for the password")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// only explicit flags replace durations, so sub-second file values survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.ConnectTimeout = time.Duration(*timeout) * time.Second
		case "k":
			cfg.KeepAliveInterval = time.Duration(*keepalive) * time.Second
		}
	})
	return nil
}
