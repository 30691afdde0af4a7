package value

import (
	"fmt"

	"github.com/codenotary/immudb/pkg/api/schema"

	"github.com/dmitrijs2005/immuclient/common"
)

// TypeMismatchError reports a wire variant outside the subset accepted by
// the requested Go type. It matches common.ErrDecode and
// common.ErrTypeMismatch.
type TypeMismatchError struct {
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Actual)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == common.ErrDecode || target == common.ErrTypeMismatch
}

func mismatch(expected string, v *schema.SQLValue) error {
	return &TypeMismatchError{Expected: expected, Actual: Kind(v)}
}
