package database

import (
	"context"
	"errors"
)

var (
	ErrConnectionFailed     = errors.New("DATABASE_CONNECTION_FAILED")
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
	ErrUnsupportedDriver    = errors.New("UNSUPPORTED_DRIVER")
)

// Executor runs one SQL statement and returns its rows. Failures wrap
// ErrQueryExecutionFailed.
type Executor interface {
	Execute(ctx context.Context, statement string) (*QueryResult, error)
	Close() error
}

// Seeder runs statements that return no rows. Placeholder renders the
// n-th (1-based) bind parameter for the backing dialect.
type Seeder interface {
	Exec(ctx context.Context, statement string, args ...interface{}) error
	Placeholder(n int) string
}

// Store is a warehouse connection able to both query and load data.
type Store interface {
	Executor
	Seeder
}
