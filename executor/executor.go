package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/codenotary/immudb/pkg/api/schema"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/immuclient/common"
	"github.com/dmitrijs2005/immuclient/internal/logging"
	"github.com/dmitrijs2005/immuclient/value"
)

// RollbackTimeout bounds the rollback issued by WithTransaction.
const RollbackTimeout = 5 * time.Second

// RPC is the subset of schema.ImmuServiceClient used by the executor.
// The client must be built on an authenticated session channel.
type RPC interface {
	NewTx(ctx context.Context, in *schema.NewTxRequest, opts ...grpc.CallOption) (*schema.NewTxResponse, error)
	Commit(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*schema.CommittedSQLTx, error)
	Rollback(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SQLExec(ctx context.Context, in *schema.SQLExecRequest, opts ...grpc.CallOption) (*schema.SQLExecResult, error)
	TxSQLExec(ctx context.Context, in *schema.SQLExecRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SQLQuery(ctx context.Context, in *schema.SQLQueryRequest, opts ...grpc.CallOption) (schema.ImmuService_SQLQueryClient, error)
	TxSQLQuery(ctx context.Context, in *schema.SQLQueryRequest, opts ...grpc.CallOption) (schema.ImmuService_TxSQLQueryClient, error)
}

type Executor struct {
	rpc  RPC
	log  logging.Logger
	txID string
}

func New(rpc RPC, logger logging.Logger) *Executor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Executor{rpc: rpc, log: logger.With("module", "executor")}
}

// InTransaction reports whether a server-side transaction is open.
func (e *Executor) InTransaction() bool {
	return e.txID != ""
}

// TransactionID returns the open transaction id, or "" in autocommit mode.
func (e *Executor) TransactionID() string {
	return e.txID
}

func (e *Executor) txContext(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.TransactionIDHeaderName, e.txID)
}

// Begin opens a transaction in the given mode.
func (e *Executor) Begin(ctx context.Context, mode schema.TxMode) error {
	if e.InTransaction() {
		return fmt.Errorf("%w: transaction %s already open", common.ErrUnexpected, e.txID)
	}

	resp, err := e.rpc.NewTx(ctx, &schema.NewTxRequest{Mode: mode})
	if err != nil {
		return fmt.Errorf("begin: %w", common.MapRPCError(err))
	}

	id := resp.GetTransactionID()
	if id == "" || !common.IsASCIIToken(id) {
		return fmt.Errorf("%w: server returned an unusable transaction id", common.ErrUnexpected)
	}
	e.txID = id
	e.log.Debug(ctx, "transaction started", "tx", id, "mode", mode.String())
	return nil
}

// Exec runs a statement. Inside a transaction the server reports no
// per-statement outcome and an empty result is returned.
func (e *Executor) Exec(ctx context.Context, sql string, params value.Params) (*schema.SQLExecResult, error) {
	req := &schema.SQLExecRequest{Sql: sql, Params: params}

	if !e.InTransaction() {
		res, err := e.rpc.SQLExec(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("exec: %w", common.MapRPCError(err))
		}
		return res, nil
	}

	if _, err := e.rpc.TxSQLExec(e.txContext(ctx), req); err != nil {
		return nil, fmt.Errorf("exec in tx %s: %w", e.txID, common.MapRPCError(err))
	}
	return &schema.SQLExecResult{}, nil
}

// recvStream is what both query stream flavours have in common.
type recvStream interface {
	Recv() (*schema.SQLQueryResult, error)
}

// Query runs a statement and drains the result stream. Either the whole
// result is returned or an error; partial results are discarded.
func (e *Executor) Query(ctx context.Context, sql string, params value.Params) (*QueryResult, error) {
	req := &schema.SQLQueryRequest{Sql: sql, Params: params, AcceptStream: true}

	var (
		stream recvStream
		err    error
	)
	if e.InTransaction() {
		stream, err = e.rpc.TxSQLQuery(e.txContext(ctx), req)
	} else {
		stream, err = e.rpc.SQLQuery(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("query: %w", common.MapRPCError(err))
	}

	res, err := collect(stream)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return res, nil
}

func collect(stream recvStream) (*QueryResult, error) {
	res := &QueryResult{}
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return nil, common.MapRPCError(err)
		}
		res.append(chunk)
	}
}

// Commit commits the open transaction. The executor returns to autocommit
// mode whether or not the server accepted the commit. Without an open
// transaction Commit does nothing.
func (e *Executor) Commit(ctx context.Context) error {
	if !e.InTransaction() {
		return nil
	}
	ctx = e.txContext(ctx)
	id := e.txID
	e.txID = ""

	if _, err := e.rpc.Commit(ctx, &emptypb.Empty{}); err != nil {
		return fmt.Errorf("commit tx %s: %w", id, common.MapRPCError(err))
	}
	e.log.Debug(ctx, "transaction committed", "tx", id)
	return nil
}

// Rollback aborts the open transaction. A failed rollback is logged and
// not reported; the server discards the transaction with the session.
func (e *Executor) Rollback(ctx context.Context) error {
	if !e.InTransaction() {
		return nil
	}
	ctx = e.txContext(ctx)
	id := e.txID
	e.txID = ""

	if _, err := e.rpc.Rollback(ctx, &emptypb.Empty{}); err != nil {
		e.log.Warn(ctx, "rollback failed", "tx", id, "error", err)
		return nil
	}
	e.log.Debug(ctx, "transaction rolled back", "tx", id)
	return nil
}

// WithTransaction begins a transaction, runs fn, and commits on success
// or rolls back on error or panic. Panics are rethrown. The error
// returned by fn is returned unchanged.
//
//	err := e.WithTransaction(ctx, schema.TxMode_ReadWrite, func(ctx context.Context, tx *executor.Executor) error {
//	    _, err := tx.Exec(ctx, "INSERT INTO t(id) VALUES (@id)", value.NewParams(value.Named("id", 1)))
//	    return err
//	})
func (e *Executor) WithTransaction(ctx context.Context, mode schema.TxMode, fn func(ctx context.Context, tx *Executor) error) (err error) {
	if err = e.Begin(ctx, mode); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			e.abort(ctx)
			panic(p)
		}
		if err != nil {
			e.abort(ctx)
			return
		}
		err = e.Commit(ctx)
	}()

	err = fn(ctx, e)
	return err
}

// abort rolls back on a context detached from ctx, so a cancelled body
// still releases the server-side transaction.
func (e *Executor) abort(ctx context.Context) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RollbackTimeout)
	defer cancel()
	_ = e.Rollback(rctx)
}

// InTransaction is WithTransaction for bodies that produce a value. The
// zero T is returned when the transaction does not commit.
func InTransaction[T any](ctx context.Context, e *Executor, mode schema.TxMode, fn func(ctx context.Context, tx *Executor) (T, error)) (T, error) {
	var out T
	err := e.WithTransaction(ctx, mode, func(ctx context.Context, tx *Executor) error {
		v, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
