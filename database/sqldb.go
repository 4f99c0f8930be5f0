package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// SQLExecutor runs statements through database/sql. It backs both the
// lib/pq and the sqlite3 drivers.
type SQLExecutor struct {
	db     *sql.DB
	driver string
}

func NewSQLExecutor(db *sql.DB, driver string) *SQLExecutor {
	return &SQLExecutor{db: db, driver: driver}
}

func (s *SQLExecutor) Execute(ctx context.Context, statement string) (*QueryResult, error) {
	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns: %v", ErrQueryExecutionFailed, err)
	}
	typeNames := make([]string, len(columns))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			typeNames[i] = ct.DatabaseTypeName()
		}
	}

	result := &QueryResult{Columns: columns, Rows: []Row{}}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrQueryExecutionFailed, err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i], typeNames[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}
	return result, nil
}

func (s *SQLExecutor) Exec(ctx context.Context, statement string, args ...interface{}) error {
	if _, err := s.db.ExecContext(ctx, statement, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}
	return nil
}

func (s *SQLExecutor) Placeholder(n int) string {
	if s.driver == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func (s *SQLExecutor) Close() error {
	return s.db.Close()
}
