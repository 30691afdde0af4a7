package executor

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/codenotary/immudb/pkg/api/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/immuclient/common"
	"github.com/dmitrijs2005/immuclient/value"
)

/*************
 * Fake immudb client
 *************/

type fakeStream struct {
	grpc.ClientStream
	chunks []*schema.SQLQueryResult
	err    error // returned instead of io.EOF once chunks are drained
}

func (s *fakeStream) Recv() (*schema.SQLQueryResult, error) {
	if len(s.chunks) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

type fakeRPC struct {
	// call log, in order
	calls []string
	// transactionid metadata seen per call
	txIDs []string

	lastExecReq  *schema.SQLExecRequest
	lastQueryReq *schema.SQLQueryRequest
	lastTxMode   schema.TxMode

	newTxResp *schema.NewTxResponse
	newTxErr  error

	commitErr   error
	rollbackErr error
	// ctx.Err() observed by Rollback
	rollbackCtxErr error

	execResp *schema.SQLExecResult
	execErr  error

	stream   *fakeStream
	queryErr error
}

func (f *fakeRPC) record(ctx context.Context, name string) {
	f.calls = append(f.calls, name)
	md, _ := metadata.FromOutgoingContext(ctx)
	ids := md.Get(common.TransactionIDHeaderName)
	if len(ids) == 0 {
		f.txIDs = append(f.txIDs, "")
		return
	}
	f.txIDs = append(f.txIDs, ids[len(ids)-1])
}

func (f *fakeRPC) NewTx(ctx context.Context, in *schema.NewTxRequest, opts ...grpc.CallOption) (*schema.NewTxResponse, error) {
	f.record(ctx, "NewTx")
	f.lastTxMode = in.GetMode()
	return f.newTxResp, f.newTxErr
}

func (f *fakeRPC) Commit(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*schema.CommittedSQLTx, error) {
	f.record(ctx, "Commit")
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	return &schema.CommittedSQLTx{}, nil
}

func (f *fakeRPC) Rollback(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	f.record(ctx, "Rollback")
	f.rollbackCtxErr = ctx.Err()
	return &emptypb.Empty{}, f.rollbackErr
}

func (f *fakeRPC) SQLExec(ctx context.Context, in *schema.SQLExecRequest, opts ...grpc.CallOption) (*schema.SQLExecResult, error) {
	f.record(ctx, "SQLExec")
	f.lastExecReq = in
	return f.execResp, f.execErr
}

func (f *fakeRPC) TxSQLExec(ctx context.Context, in *schema.SQLExecRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	f.record(ctx, "TxSQLExec")
	f.lastExecReq = in
	return &emptypb.Empty{}, f.execErr
}

func (f *fakeRPC) SQLQuery(ctx context.Context, in *schema.SQLQueryRequest, opts ...grpc.CallOption) (schema.ImmuService_SQLQueryClient, error) {
	f.record(ctx, "SQLQuery")
	f.lastQueryReq = in
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.stream, nil
}

func (f *fakeRPC) TxSQLQuery(ctx context.Context, in *schema.SQLQueryRequest, opts ...grpc.CallOption) (schema.ImmuService_TxSQLQueryClient, error) {
	f.record(ctx, "TxSQLQuery")
	f.lastQueryReq = in
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.stream, nil
}

func newTx(id string) *fakeRPC {
	return &fakeRPC{newTxResp: &schema.NewTxResponse{TransactionID: id}}
}

/*************
 * State machine
 *************/

func TestCommitAndRollback_NoOpInAutocommit(t *testing.T) {
	f := &fakeRPC{}
	e := New(f, nil)

	require.NoError(t, e.Commit(context.Background()))
	require.NoError(t, e.Rollback(context.Background()))
	assert.Empty(t, f.calls)
	assert.False(t, e.InTransaction())
}

func TestTransactionLifecycle(t *testing.T) {
	f := newTx("tx-1")
	e := New(f, nil)
	ctx := context.Background()

	require.NoError(t, e.Begin(ctx, schema.TxMode_ReadWrite))
	assert.True(t, e.InTransaction())
	assert.Equal(t, "tx-1", e.TransactionID())
	assert.Equal(t, schema.TxMode_ReadWrite, f.lastTxMode)

	res, err := e.Exec(ctx, "INSERT INTO t(id) VALUES (@id)", value.NewParams(value.Named("id", 1)))
	require.NoError(t, err)
	assert.Empty(t, res.GetTxs())

	require.NoError(t, e.Commit(ctx))
	assert.False(t, e.InTransaction())

	_, err = e.Exec(ctx, "SELECT 1", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"NewTx", "TxSQLExec", "Commit", "SQLExec"}, f.calls)
	assert.Equal(t, []string{"", "tx-1", "tx-1", ""}, f.txIDs)
}

func TestBegin_Twice(t *testing.T) {
	f := newTx("tx-1")
	e := New(f, nil)

	require.NoError(t, e.Begin(context.Background(), schema.TxMode_ReadWrite))
	err := e.Begin(context.Background(), schema.TxMode_ReadOnly)
	require.ErrorIs(t, err, common.ErrUnexpected)
	assert.Equal(t, "tx-1", e.TransactionID())
	assert.Equal(t, []string{"NewTx"}, f.calls)
}

func TestBegin_Failures(t *testing.T) {
	f := &fakeRPC{newTxErr: status.Error(codes.FailedPrecondition, "no session")}
	e := New(f, nil)
	err := e.Begin(context.Background(), schema.TxMode_ReadWrite)
	require.ErrorIs(t, err, common.ErrProtocol)
	assert.False(t, e.InTransaction())

	e = New(newTx("tx\x01"), nil)
	err = e.Begin(context.Background(), schema.TxMode_ReadWrite)
	require.ErrorIs(t, err, common.ErrUnexpected)
	assert.False(t, e.InTransaction())
}

func TestCommit_FailureStillClearsState(t *testing.T) {
	f := newTx("tx-1")
	f.commitErr = status.Error(codes.Aborted, "conflict")
	e := New(f, nil)

	require.NoError(t, e.Begin(context.Background(), schema.TxMode_ReadWrite))
	err := e.Commit(context.Background())
	require.ErrorIs(t, err, common.ErrProtocol)
	assert.Equal(t, codes.Aborted, status.Code(err))
	assert.False(t, e.InTransaction())
}

func TestRollback_SwallowsErrors(t *testing.T) {
	f := newTx("tx-1")
	f.rollbackErr = status.Error(codes.Unavailable, "gone")
	e := New(f, nil)

	require.NoError(t, e.Begin(context.Background(), schema.TxMode_ReadWrite))
	require.NoError(t, e.Rollback(context.Background()))
	assert.False(t, e.InTransaction())

	_, err := e.Exec(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"NewTx", "Rollback", "SQLExec"}, f.calls)
	assert.Equal(t, []string{"", "tx-1", ""}, f.txIDs)
}

func TestExec_Autocommit(t *testing.T) {
	f := &fakeRPC{execResp: &schema.SQLExecResult{Txs: []*schema.CommittedSQLTx{{UpdatedRows: 1}}}}
	e := New(f, nil)

	params := value.NewParams(value.Named("id", 7), value.Named("name", "alice"))
	res, err := e.Exec(context.Background(), "INSERT INTO users(id, name) VALUES (@id, @name)", params)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), res.GetTxs()[0].GetUpdatedRows())
	assert.Equal(t, []string{"SQLExec"}, f.calls)
	assert.Equal(t, []string{""}, f.txIDs)
	assert.Equal(t, []string{"id", "name"}, value.Params(f.lastExecReq.GetParams()).Names())

	f.execErr = errors.New("broken pipe")
	_, err = e.Exec(context.Background(), "x", nil)
	require.ErrorIs(t, err, common.ErrTransport)
}

/*************
 * Queries
 *************/

func threeChunks() *fakeStream {
	row := func(n int64) *schema.Row {
		return &schema.Row{Columns: []string{"(t.id)"}, Values: []*schema.SQLValue{value.Int(n)}}
	}
	return &fakeStream{chunks: []*schema.SQLQueryResult{
		{Columns: []*schema.Column{{Name: "(t.id)", Type: "INTEGER"}}, Rows: []*schema.Row{row(1), row(2)}},
		{Rows: []*schema.Row{row(3), row(4)}},
		{Columns: []*schema.Column{{Name: "ignored", Type: "VARCHAR"}}, Rows: []*schema.Row{row(5), row(6)}},
	}}
}

func TestQuery_AggregatesStreamChunks(t *testing.T) {
	f := &fakeRPC{stream: threeChunks()}
	e := New(f, nil)

	res, err := e.Query(context.Background(), "SELECT id FROM t", nil)
	require.NoError(t, err)

	require.Len(t, res.Columns, 1)
	assert.Equal(t, Column{Name: "(t.id)", Type: "INTEGER"}, res.Columns[0])
	assert.Equal(t, 6, res.Len())
	assert.True(t, f.lastQueryReq.GetAcceptStream())

	ids, err := FirstColumn[int](res)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids)
}

func TestQuery_StreamErrorDiscardsPartialResult(t *testing.T) {
	s := threeChunks()
	s.err = status.Error(codes.Internal, "stream broke")
	e := New(&fakeRPC{stream: s}, nil)

	res, err := e.Query(context.Background(), "SELECT id FROM t", nil)
	require.ErrorIs(t, err, common.ErrProtocol)
	assert.Nil(t, res)
}

func TestQuery_OpenError(t *testing.T) {
	e := New(&fakeRPC{queryErr: status.Error(codes.Unavailable, "down")}, nil)
	_, err := e.Query(context.Background(), "SELECT 1", nil)
	require.ErrorIs(t, err, common.ErrTransport)
}

func TestQuery_InTransactionUsesTxVariant(t *testing.T) {
	f := newTx("tx-7")
	f.stream = &fakeStream{}
	e := New(f, nil)

	require.NoError(t, e.Begin(context.Background(), schema.TxMode_ReadOnly))
	res, err := e.Query(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
	assert.Empty(t, res.Columns)

	assert.Equal(t, []string{"NewTx", "TxSQLQuery"}, f.calls)
	assert.Equal(t, "tx-7", f.txIDs[1])
}

/*************
 * WithTransaction
 *************/

func TestWithTransaction_RollsBackAndReturnsBodyError(t *testing.T) {
	f := newTx("tx-1")
	e := New(f, nil)
	bodyErr := errors.New("business rule violated")

	err := e.WithTransaction(context.Background(), schema.TxMode_ReadWrite, func(ctx context.Context, tx *Executor) error {
		for i := 0; i < 3; i++ {
			if _, err := tx.Exec(ctx, "INSERT INTO t(id) VALUES (@id)", value.NewParams(value.Named("id", i))); err != nil {
				return err
			}
		}
		return bodyErr
	})

	require.ErrorIs(t, err, bodyErr)
	assert.Same(t, bodyErr, err)
	assert.Equal(t, []string{"NewTx", "TxSQLExec", "TxSQLExec", "TxSQLExec", "Rollback"}, f.calls)
	assert.False(t, e.InTransaction())
}

func TestWithTransaction_RollbackOutlivesCancelledContext(t *testing.T) {
	f := newTx("tx-1")
	e := New(f, nil)
	ctx, cancel := context.WithCancel(context.Background())

	err := e.WithTransaction(ctx, schema.TxMode_ReadWrite, func(ctx context.Context, tx *Executor) error {
		cancel()
		return ctx.Err()
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"NewTx", "Rollback"}, f.calls)
	assert.Equal(t, "tx-1", f.txIDs[len(f.txIDs)-1])
	assert.NoError(t, f.rollbackCtxErr)
}

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	f := newTx("tx-1")
	e := New(f, nil)

	err := e.WithTransaction(context.Background(), schema.TxMode_ReadWrite, func(ctx context.Context, tx *Executor) error {
		_, err := tx.Exec(ctx, "DELETE FROM t", nil)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"NewTx", "TxSQLExec", "Commit"}, f.calls)
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	f := newTx("tx-1")
	e := New(f, nil)

	require.PanicsWithValue(t, "boom", func() {
		_ = e.WithTransaction(context.Background(), schema.TxMode_ReadWrite, func(ctx context.Context, tx *Executor) error {
			panic("boom")
		})
	})
	assert.Equal(t, []string{"NewTx", "Rollback"}, f.calls)
	assert.False(t, e.InTransaction())
}

func TestWithTransaction_BeginFailureSkipsBody(t *testing.T) {
	f := &fakeRPC{newTxErr: status.Error(codes.ResourceExhausted, "too many")}
	e := New(f, nil)

	called := false
	err := e.WithTransaction(context.Background(), schema.TxMode_ReadWrite, func(ctx context.Context, tx *Executor) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, common.ErrProtocol)
	assert.False(t, called)
}

func TestInTransaction_ReturnsValue(t *testing.T) {
	f := newTx("tx-1")
	f.stream = threeChunks()
	e := New(f, nil)

	n, err := InTransaction(context.Background(), e, schema.TxMode_ReadOnly, func(ctx context.Context, tx *Executor) (int, error) {
		ids, err := QueryColumn[int](ctx, tx, "SELECT id FROM t", nil)
		return len(ids), err
	})
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []string{"NewTx", "TxSQLQuery", "Commit"}, f.calls)

	f = newTx("tx-2")
	f.commitErr = status.Error(codes.Aborted, "conflict")
	e = New(f, nil)
	n, err = InTransaction(context.Background(), e, schema.TxMode_ReadWrite, func(ctx context.Context, tx *Executor) (int, error) {
		return 42, nil
	})
	require.ErrorIs(t, err, common.ErrProtocol)
	assert.Zero(t, n)
}
