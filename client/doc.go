// Package client connects to an immudb server and hands out the SQL
// executor and the document client bound to one authenticated session.
//
//	db, err := client.Connect(ctx, client.Options{Address: "localhost:3322"})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	n, err := executor.QueryScalar[int64](ctx, db.SQL(), "SELECT COUNT(*) FROM users", nil)
package client
