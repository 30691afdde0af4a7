package client

import (
	"log/slog"
	"time"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/immuclient/session"
)

const (
	DefaultAddress        = "localhost:3322"
	DefaultUsername       = "immudb"
	DefaultPassword       = "immudb"
	DefaultDatabase       = "defaultdb"
	DefaultConnectTimeout = 5 * time.Second
)

type Options struct {
	Address  string
	Username string
	Password string
	Database string

	// ConnectTimeout bounds the session handshake and database selection.
	ConnectTimeout time.Duration
	// KeepAliveInterval is the period of the session keepalive RPC.
	KeepAliveInterval time.Duration
	// TransportKeepAlive enables HTTP/2 pings at this period when positive.
	// Servers reject pings more frequent than their enforcement policy.
	TransportKeepAlive time.Duration

	// LogCalls logs every RPC at debug level through Logger.
	LogCalls bool
	Logger   *slog.Logger

	// DialOptions are appended after the defaults.
	DialOptions []grpc.DialOption
}

// DefaultOptions returns the options of a stock local immudb.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Address == "" {
		o.Address = DefaultAddress
	}
	if o.Username == "" {
		o.Username = DefaultUsername
	}
	if o.Password == "" {
		o.Password = DefaultPassword
	}
	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.KeepAliveInterval <= 0 {
		o.KeepAliveInterval = session.DefaultLivenessInterval
	}
	return o
}
