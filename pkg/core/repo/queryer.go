package repo

import "context"

// Queryer runs SQL statements, either on a connection or in an open
// transaction. Statements with args are prepared and their arguments
// are passed to the DBMS separately in order to prevent SQL injection.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows is the result set of a query. It must be closed after use; the
// deferred error, if any, may be checked by the Err method.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
}
