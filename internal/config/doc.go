// Package config loads runtime configuration for the immucli demo.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   host:port of the immudb gRPC endpoint
//	-u string   user name
//	-d string   database
//	-t int      connect timeout (seconds)
//	-k int      session keepalive interval (seconds)
//	-v          log every RPC at debug level
//	-W          prompt for the password
//
// # File schema
//
// Intervals use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds:
//
//	address: localhost:3322
//	username: immudb
//	database: defaultdb
//	connect_timeout: 5s
//	keepalive_interval: 30s
//	log_calls: false
//
// Fields absent from the file keep their previous value.
package config
