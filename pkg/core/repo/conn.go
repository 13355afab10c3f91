package repo

import "context"

// TxHandler is a handler function which takes a context and an open
// transaction. If it returns an error, the transaction will be rolled
// back, otherwise, it will be committed.
type TxHandler func(context.Context, Tx) error

// Conn represents an established database connection. A connection
// may run queries directly, in the auto-committed mode, or begin a
// transaction and run its queries in it. It is unsafe to be used
// concurrently.
type Conn interface {
	Queryer

	// Tx begins a transaction, passes it to the f handler, and commits
	// or rolls it back based on the returned error being nil or not.
	Tx(ctx context.Context, f TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
