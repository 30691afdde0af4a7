// Package value converts between Go values, the immudb SQL wire value union
// (schema.SQLValue) and generic JSON-compatible documents.
//
// # Scalars
//
// Encode and Decode are parameterized by the closed Scalar type set, so an
// unsupported Go type is rejected at compile time. Two conversions narrow
// the value on purpose:
//
//   - time.Time travels as microseconds since the Unix epoch (UTC); any
//     nanosecond remainder is discarded.
//   - uuid.UUID travels as its 16-byte big-endian form and comes back as
//     bytes, not as a dedicated UUID variant.
//
// # Parameters
//
// Named builds one bound parameter; Params keeps them in declaration order.
// ParamsFrom derives parameters from a tagged struct:
//
//	type user struct {
//	    ID    int64   `sql:"id"`
//	    Name  string  `sql:"name"`
//	    Email *string `sql:"email,omitempty"`
//	    Cache []byte  `sql:"-"`
//	}
//
// # Documents
//
// RowDocument turns a result row into a Document keyed by normalized column
// names (see NormalizeColumn). ToStruct/FromStruct convert documents to and
// from the protobuf Struct form used by the document API. Numbers on that
// wire are 64-bit floats; large integers lose precision.
package value
