// Package executor runs SQL statements against an immudb session, either
// in autocommit mode or inside an interactive server-side transaction.
//
// An Executor is a small state machine:
//
//	Autocommit --Begin--> InTransaction(id) --Commit/Rollback--> Autocommit
//
// While a transaction is open every statement is sent through the Tx*
// RPC variants with the transaction id attached as call metadata. An
// Executor is not safe for concurrent use; create one per goroutine.
package executor
