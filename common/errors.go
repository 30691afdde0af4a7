// Package common defines shared constants and sentinel errors used across
// the session, executor, value and document layers. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Channel-level failures: the call never reached a server decision.
	ErrTransport = errors.New("transport error")

	// The server answered with a failure status.
	ErrProtocol = errors.New("protocol error")

	// Result shape did not match the requested target.
	ErrDecode = errors.New("decode error")

	// A cell held a wire variant the requested type does not accept.
	ErrTypeMismatch = errors.New("type mismatch")

	// Caller-supplied value cannot be represented on the wire.
	ErrInvalidInput = errors.New("invalid input")

	// Invariant violation.
	ErrUnexpected = errors.New("unexpected error")
)
