package executor

import (
	"context"
	"fmt"

	"github.com/codenotary/immudb/pkg/api/schema"
	"github.com/samber/lo"

	"github.com/dmitrijs2005/immuclient/common"
	"github.com/dmitrijs2005/immuclient/value"
)

type Column struct {
	Name string
	Type string
}

type Row struct {
	Labels []string
	Values []*schema.SQLValue
}

// QueryResult is a fully drained query stream.
type QueryResult struct {
	Columns []Column
	Rows    []Row
}

// append merges one stream chunk. Column descriptors are taken from the
// first chunk that carries any; rows are kept in arrival order.
func (r *QueryResult) append(chunk *schema.SQLQueryResult) {
	if len(r.Columns) == 0 && len(chunk.GetColumns()) > 0 {
		r.Columns = lo.Map(chunk.GetColumns(), func(c *schema.Column, _ int) Column {
			return Column{Name: c.GetName(), Type: c.GetType()}
		})
	}
	for _, row := range chunk.GetRows() {
		r.Rows = append(r.Rows, Row{Labels: row.GetColumns(), Values: row.GetValues()})
	}
}

func (r *QueryResult) Len() int {
	return len(r.Rows)
}

func (r *QueryResult) ColumnNames() []string {
	return lo.Map(r.Columns, func(c Column, _ int) string { return c.Name })
}

// RowDocument returns row i keyed by normalized column name.
func (r *QueryResult) RowDocument(i int) (value.Document, error) {
	if i < 0 || i >= len(r.Rows) {
		return nil, fmt.Errorf("%w: row %d out of bounds (%d rows)", common.ErrDecode, i, len(r.Rows))
	}
	row := r.Rows[i]
	return value.RowDocument(row.Labels, row.Values, r.ColumnNames())
}

// Documents converts every row.
func (r *QueryResult) Documents() ([]value.Document, error) {
	out := make([]value.Document, 0, len(r.Rows))
	for i := range r.Rows {
		d, err := r.RowDocument(i)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Scalar decodes the first value of the first row.
func Scalar[T value.Scalar](r *QueryResult) (T, error) {
	var zero T
	if len(r.Rows) == 0 {
		return zero, fmt.Errorf("%w: empty result", common.ErrDecode)
	}
	vals := r.Rows[0].Values
	if len(vals) == 0 {
		return zero, fmt.Errorf("%w: row has no columns", common.ErrDecode)
	}
	return value.Decode[T](vals[0])
}

// FirstColumn decodes the first value of every row.
func FirstColumn[T value.Scalar](r *QueryResult) ([]T, error) {
	out := make([]T, 0, len(r.Rows))
	for i, row := range r.Rows {
		if len(row.Values) == 0 {
			return nil, fmt.Errorf("%w: row %d has no columns", common.ErrDecode, i)
		}
		v, err := value.Decode[T](row.Values[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// One maps the single row of r onto T through its json tags.
func One[T any](r *QueryResult) (T, error) {
	var out T
	if len(r.Rows) != 1 {
		return out, fmt.Errorf("%w: expected exactly one row, got %d", common.ErrDecode, len(r.Rows))
	}
	doc, err := r.RowDocument(0)
	if err != nil {
		return out, err
	}
	if err := doc.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// RowsAs maps every row onto T.
func RowsAs[T any](r *QueryResult) ([]T, error) {
	out := make([]T, 0, len(r.Rows))
	for i := range r.Rows {
		doc, err := r.RowDocument(i)
		if err != nil {
			return nil, err
		}
		var v T
		if err := doc.Decode(&v); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func QueryScalar[T value.Scalar](ctx context.Context, e *Executor, sql string, params value.Params) (T, error) {
	r, err := e.Query(ctx, sql, params)
	if err != nil {
		var zero T
		return zero, err
	}
	return Scalar[T](r)
}

func QueryColumn[T value.Scalar](ctx context.Context, e *Executor, sql string, params value.Params) ([]T, error) {
	r, err := e.Query(ctx, sql, params)
	if err != nil {
		return nil, err
	}
	return FirstColumn[T](r)
}

func QueryOne[T any](ctx context.Context, e *Executor, sql string, params value.Params) (T, error) {
	r, err := e.Query(ctx, sql, params)
	if err != nil {
		var zero T
		return zero, err
	}
	return One[T](r)
}

func QueryAs[T any](ctx context.Context, e *Executor, sql string, params value.Params) ([]T, error) {
	r, err := e.Query(ctx, sql, params)
	if err != nil {
		return nil, err
	}
	return RowsAs[T](r)
}
