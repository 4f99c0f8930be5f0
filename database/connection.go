package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"datamilo/logger"
)

// pgxPool is the part of *pgxpool.Pool the executor uses.
type pgxPool interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Close()
}

// PgxExecutor runs statements on a pgx connection pool.
type PgxExecutor struct {
	pool pgxPool
	log  logger.Logger
}

// NewPgxExecutor parses the connection settings, opens a pool and pings it.
func NewPgxExecutor(ctx context.Context, opts Options, log logger.Logger) (*PgxExecutor, error) {
	config, err := pgxpool.ParseConfig(opts.ConnString())
	if err != nil {
		return nil, fmt.Errorf("%w: parse config: %v", ErrConnectionFailed, err)
	}
	if opts.MaxConns > 0 {
		config.MaxConns = int32(opts.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %v", ErrConnectionFailed, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrConnectionFailed, err)
	}

	log.Info("Successfully connected to the database", map[string]interface{}{
		"driver":    DriverPgx,
		"host":      opts.Host,
		"database":  opts.Name,
		"max_conns": config.MaxConns,
	})
	return &PgxExecutor{pool: pool, log: log}, nil
}

func (p *PgxExecutor) Execute(ctx context.Context, statement string) (*QueryResult, error) {
	rows, err := p.pool.Query(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := &QueryResult{Columns: make([]string, len(fields)), Rows: []Row{}}
	for i, fd := range fields {
		result.Columns[i] = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: read row: %v", ErrQueryExecutionFailed, err)
		}
		row := make(Row, len(values))
		for i, v := range values {
			row[result.Columns[i]] = normalizePgx(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}
	return result, nil
}

func (p *PgxExecutor) Exec(ctx context.Context, statement string, args ...interface{}) error {
	if _, err := p.pool.Exec(ctx, statement, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}
	return nil
}

func (p *PgxExecutor) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (p *PgxExecutor) Close() error {
	p.pool.Close()
	return nil
}

// normalizePgx unwraps pgx numeric values before the common folding.
func normalizePgx(v interface{}) interface{} {
	if n, ok := v.(pgtype.Numeric); ok {
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	}
	return normalizeValue(v, "")
}
