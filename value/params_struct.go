package value

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/codenotary/immudb/pkg/api/schema"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/immuclient/common"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// ParamsFrom binds every exported field of the struct v (or pointer to
// struct). The `sql` tag controls binding:
//
//	`sql:"name"`            bind under name instead of the field name
//	`sql:"-"`               skip the field
//	`sql:"name,omitempty"`  skip the field when it is a nil pointer
//
// A nil pointer without omitempty binds NULL.
func ParamsFrom(v any) (Params, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %T", common.ErrInvalidInput, v)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: expected struct, got %T", common.ErrInvalidInput, v)
	}

	rt := rv.Type()
	var ps Params
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty, skip := parseTag(f.Tag.Get("sql"))
		if skip {
			continue
		}
		if name == "" {
			name = f.Name
		}

		fv := rv.Field(i)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				if !omitEmpty {
					ps = append(ps, NamedNull(name))
				}
				continue
			}
			fv = fv.Elem()
		}

		sv, err := encodeReflect(fv)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		ps = append(ps, &schema.NamedParam{Name: name, Value: sv})
	}
	return ps, nil
}

func parseTag(tag string) (name string, omitEmpty, skip bool) {
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "omitempty" {
			omitEmpty = true
		}
	}
	return strings.TrimSpace(parts[0]), omitEmpty, false
}

func encodeReflect(fv reflect.Value) (*schema.SQLValue, error) {
	switch fv.Type() {
	case timeType:
		return Timestamp(fv.Interface().(time.Time)), nil
	case uuidType:
		return Encode(fv.Interface().(uuid.UUID)), nil
	}

	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(fv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int(int64(fv.Uint())), nil
	case reflect.Float64:
		return Float(fv.Float()), nil
	case reflect.Bool:
		return Bool(fv.Bool()), nil
	case reflect.String:
		return String(fv.String()), nil
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(fv.Bytes()), nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported type %s", common.ErrInvalidInput, fv.Type())
}
