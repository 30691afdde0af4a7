// Package session owns the server-side session of an immudb connection:
// the OpenSession handshake, the per-database authorization token, the
// metadata attached to every outbound call and the background keepalive.
//
// A Session is safe for concurrent use. The token is replaced under an
// exclusive lock by SelectDatabase and read under a shared lock by every
// outbound call.
package session
