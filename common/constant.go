// Package common contains shared constants and sentinel errors used across
// immuclient packages.
package common

// Metadata keys attached to outbound gRPC calls. Values must be ASCII.
const (
	SessionIDHeaderName     = "sessionid"
	ServerUUIDHeaderName    = "immudb-uuid"
	AuthorizationHeaderName = "authorization"
	TransactionIDHeaderName = "transactionid"
)

// IsASCIIToken reports whether s can travel as a plain (non-binary) gRPC
// metadata value: visible ASCII, space and tab only.
func IsASCIIToken(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\t' {
			continue
		}
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// WipeBytes zeroes b in place. Credentials are wiped once they have been
// sent.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
