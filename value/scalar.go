package value

import (
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"github.com/codenotary/immudb/pkg/api/schema"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/immuclient/common"
)

// Scalar is the closed set of Go types accepted by Encode and Decode.
type Scalar interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float64 | bool | string | []byte | uuid.UUID | time.Time
}

// Wire variant names used in error messages.
const (
	KindNull      = "null"
	KindInt       = "int"
	KindFloat     = "float"
	KindBool      = "bool"
	KindString    = "string"
	KindBytes     = "bytes"
	KindTimestamp = "timestamp"
)

func Null() *schema.SQLValue {
	return &schema.SQLValue{Value: &schema.SQLValue_Null{Null: structpb.NullValue_NULL_VALUE}}
}

func Int(n int64) *schema.SQLValue {
	return &schema.SQLValue{Value: &schema.SQLValue_N{N: n}}
}

func Float(f float64) *schema.SQLValue {
	return &schema.SQLValue{Value: &schema.SQLValue_F{F: f}}
}

func Bool(b bool) *schema.SQLValue {
	return &schema.SQLValue{Value: &schema.SQLValue_B{B: b}}
}

func String(s string) *schema.SQLValue {
	return &schema.SQLValue{Value: &schema.SQLValue_S{S: s}}
}

func Bytes(b []byte) *schema.SQLValue {
	return &schema.SQLValue{Value: &schema.SQLValue_Bs{Bs: b}}
}

// Timestamp encodes t as UTC microseconds since the Unix epoch.
func Timestamp(t time.Time) *schema.SQLValue {
	return TimestampMicros(t.UTC().UnixMicro())
}

func TimestampMicros(us int64) *schema.SQLValue {
	return &schema.SQLValue{Value: &schema.SQLValue_Ts{Ts: us}}
}

// Encode maps v to exactly one wire variant. Unsigned integers are widened
// to int64; uint64 values above math.MaxInt64 keep their bit pattern.
func Encode[T Scalar](v T) *schema.SQLValue {
	switch x := any(v).(type) {
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Int(int64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return Int(int64(x))
	case float64:
		return Float(x)
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case []byte:
		return Bytes(x)
	case uuid.UUID:
		return Bytes(x[:])
	case time.Time:
		return Timestamp(x)
	}
	panic(fmt.Sprintf("value: unhandled scalar type %T", v))
}

// Kind names the wire variant held by v.
func Kind(v *schema.SQLValue) string {
	switch v.GetValue().(type) {
	case *schema.SQLValue_N:
		return KindInt
	case *schema.SQLValue_F:
		return KindFloat
	case *schema.SQLValue_B:
		return KindBool
	case *schema.SQLValue_S:
		return KindString
	case *schema.SQLValue_Bs:
		return KindBytes
	case *schema.SQLValue_Ts:
		return KindTimestamp
	default:
		return KindNull
	}
}

// IsNull reports whether v is absent or holds the Null variant.
func IsNull(v *schema.SQLValue) bool {
	return Kind(v) == KindNull
}

// Decode converts a wire value into T. Accepted variants per target:
//
//	signed/unsigned integers  int (range checked)
//	float64                   float, int
//	bool                      bool
//	string                    string, bytes (base64 text)
//	[]byte                    bytes
//	time.Time                 timestamp (UTC)
//	uuid.UUID                 bytes (16), string
func Decode[T Scalar](v *schema.SQLValue) (T, error) {
	var out T
	var err error

	switch p := any(&out).(type) {
	case *int:
		var n int64
		n, err = signed(v, "int", math.MinInt, math.MaxInt)
		*p = int(n)
	case *int8:
		var n int64
		n, err = signed(v, "int8", math.MinInt8, math.MaxInt8)
		*p = int8(n)
	case *int16:
		var n int64
		n, err = signed(v, "int16", math.MinInt16, math.MaxInt16)
		*p = int16(n)
	case *int32:
		var n int64
		n, err = signed(v, "int32", math.MinInt32, math.MaxInt32)
		*p = int32(n)
	case *int64:
		*p, err = signed(v, "int64", math.MinInt64, math.MaxInt64)
	case *uint:
		var n uint64
		n, err = unsigned(v, "uint", math.MaxUint)
		*p = uint(n)
	case *uint8:
		var n uint64
		n, err = unsigned(v, "uint8", math.MaxUint8)
		*p = uint8(n)
	case *uint16:
		var n uint64
		n, err = unsigned(v, "uint16", math.MaxUint16)
		*p = uint16(n)
	case *uint32:
		var n uint64
		n, err = unsigned(v, "uint32", math.MaxUint32)
		*p = uint32(n)
	case *uint64:
		x, ok := v.GetValue().(*schema.SQLValue_N)
		if !ok {
			return out, mismatch("uint64", v)
		}
		*p = uint64(x.N)
	case *float64:
		switch x := v.GetValue().(type) {
		case *schema.SQLValue_F:
			*p = x.F
		case *schema.SQLValue_N:
			*p = float64(x.N)
		default:
			err = mismatch("float64", v)
		}
	case *bool:
		x, ok := v.GetValue().(*schema.SQLValue_B)
		if !ok {
			return out, mismatch("bool", v)
		}
		*p = x.B
	case *string:
		switch x := v.GetValue().(type) {
		case *schema.SQLValue_S:
			*p = x.S
		case *schema.SQLValue_Bs:
			*p = base64.StdEncoding.EncodeToString(x.Bs)
		default:
			err = mismatch("string or bytes(base64)", v)
		}
	case *[]byte:
		x, ok := v.GetValue().(*schema.SQLValue_Bs)
		if !ok {
			return out, mismatch("bytes", v)
		}
		*p = x.Bs
	case *time.Time:
		x, ok := v.GetValue().(*schema.SQLValue_Ts)
		if !ok {
			return out, mismatch("timestamp", v)
		}
		*p = time.UnixMicro(x.Ts).UTC()
	case *uuid.UUID:
		*p, err = decodeUUID(v)
	}

	return out, err
}

func signed(v *schema.SQLValue, name string, lo, hi int64) (int64, error) {
	x, ok := v.GetValue().(*schema.SQLValue_N)
	if !ok {
		return 0, mismatch(name, v)
	}
	if x.N < lo || x.N > hi {
		return 0, fmt.Errorf("%w: %d overflows %s", common.ErrDecode, x.N, name)
	}
	return x.N, nil
}

func unsigned(v *schema.SQLValue, name string, hi uint64) (uint64, error) {
	x, ok := v.GetValue().(*schema.SQLValue_N)
	if !ok {
		return 0, mismatch(name, v)
	}
	if x.N < 0 || uint64(x.N) > hi {
		return 0, fmt.Errorf("%w: %d overflows %s", common.ErrDecode, x.N, name)
	}
	return uint64(x.N), nil
}

func decodeUUID(v *schema.SQLValue) (uuid.UUID, error) {
	switch x := v.GetValue().(type) {
	case *schema.SQLValue_Bs:
		id, err := uuid.FromBytes(x.Bs)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %w", common.ErrDecode, err)
		}
		return id, nil
	case *schema.SQLValue_S:
		id, err := uuid.Parse(x.S)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %w", common.ErrDecode, err)
		}
		return id, nil
	default:
		return uuid.Nil, mismatch("uuid (16 bytes or string)", v)
	}
}

// ToJSON converts a cell into a JSON-compatible Go value. Bytes become
// base64 text and timestamps stay as integer microseconds.
func ToJSON(v *schema.SQLValue) any {
	switch x := v.GetValue().(type) {
	case *schema.SQLValue_N:
		return x.N
	case *schema.SQLValue_F:
		return x.F
	case *schema.SQLValue_B:
		return x.B
	case *schema.SQLValue_S:
		return x.S
	case *schema.SQLValue_Bs:
		return base64.StdEncoding.EncodeToString(x.Bs)
	case *schema.SQLValue_Ts:
		return x.Ts
	default:
		return nil
	}
}
