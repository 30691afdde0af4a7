package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/codenotary/immudb/pkg/api/protomodel"
	"github.com/codenotary/immudb/pkg/api/schema"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/immuclient/common"
	"github.com/dmitrijs2005/immuclient/document"
	"github.com/dmitrijs2005/immuclient/executor"
	"github.com/dmitrijs2005/immuclient/internal/logging"
	"github.com/dmitrijs2005/immuclient/session"
)

// DB is a connection with an open session. It is safe for concurrent use;
// the executors it hands out are not.
type DB struct {
	conn    *grpc.ClientConn
	session *session.Session
	svc     schema.ImmuServiceClient
	docs    protomodel.DocumentServiceClient
	live    *session.Liveness
	log     logging.Logger

	closeOnce sync.Once
	closeErr  error
}

func dialOptions(opts Options, log *logging.SlogLogger) []grpc.DialOption {
	dial := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.TransportKeepAlive > 0 {
		dial = append(dial, grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:    opts.TransportKeepAlive,
			Timeout: opts.ConnectTimeout,
		}))
	}
	if opts.LogCalls {
		dial = append(dial, logging.CallLoggingOptions(log.Slog())...)
	}
	return append(dial, opts.DialOptions...)
}

// Connect opens a session as opts.Username, selects opts.Database and
// starts the session keepalive. Zero fields of opts take their defaults.
func Connect(ctx context.Context, opts Options) (*DB, error) {
	opts = opts.withDefaults()
	log := logging.OrDiscard(opts.Logger)

	conn, err := grpc.NewClient(opts.Address, dialOptions(opts, log)...)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", common.ErrTransport, opts.Address, err)
	}

	db, err := open(ctx, conn, opts, log.With("module", "client", "address", opts.Address))
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

func open(ctx context.Context, conn *grpc.ClientConn, opts Options, log logging.Logger) (*DB, error) {
	hctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	sess, err := session.Establish(hctx, schema.NewImmuServiceClient(conn), session.Credentials{
		Username: opts.Username,
		Password: opts.Password,
		Database: opts.Database,
	})
	if err != nil {
		return nil, err
	}

	authed := sess.Wrap(conn)
	svc := schema.NewImmuServiceClient(authed)

	if err := sess.SelectDatabase(hctx, svc, opts.Database); err != nil {
		if _, cerr := svc.CloseSession(hctx, &emptypb.Empty{}); cerr != nil {
			log.Debug(ctx, "closing half-open session failed", "error", cerr)
		}
		return nil, err
	}

	log.Info(ctx, "session opened", "server_uuid", sess.ServerUUID(), "database", opts.Database)

	return &DB{
		conn:    conn,
		session: sess,
		svc:     svc,
		docs:    protomodel.NewDocumentServiceClient(authed),
		live:    session.StartLiveness(ctx, svc, opts.KeepAliveInterval, log),
		log:     log,
	}, nil
}

// SQL returns a fresh executor in autocommit mode.
func (db *DB) SQL() *executor.Executor {
	return executor.New(db.svc, db.log)
}

func (db *DB) Documents() *document.Client {
	return document.New(db.docs, db.log)
}

func (db *DB) Session() *session.Session {
	return db.session
}

// UseDatabase switches the session to name. Executors created earlier
// follow the switch.
func (db *DB) UseDatabase(ctx context.Context, name string) error {
	return db.session.SelectDatabase(ctx, db.svc, name)
}

func (db *DB) ListDatabases(ctx context.Context) ([]*schema.DatabaseInfo, error) {
	resp, err := db.svc.DatabaseListV2(ctx, &schema.DatabaseListRequestV2{})
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", common.MapRPCError(err))
	}
	return resp.GetDatabases(), nil
}

// Ping checks that the session is still known to the server.
func (db *DB) Ping(ctx context.Context) error {
	if _, err := db.svc.KeepAlive(ctx, &emptypb.Empty{}); err != nil {
		return fmt.Errorf("ping: %w", common.MapRPCError(err))
	}
	return nil
}

// CloseSession ends the server-side session and stops the keepalive. The
// connection stays open until Close.
func (db *DB) CloseSession(ctx context.Context) error {
	db.live.Stop()
	if _, err := db.svc.CloseSession(ctx, &emptypb.Empty{}); err != nil {
		return fmt.Errorf("close session: %w", common.MapRPCError(err))
	}
	return nil
}

// Close stops the keepalive without waiting for it and closes the
// connection. The server-side session is left to expire.
func (db *DB) Close() error {
	db.closeOnce.Do(func() {
		db.live.Stop()
		db.closeErr = db.conn.Close()
	})
	return db.closeErr
}
