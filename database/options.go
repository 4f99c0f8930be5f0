package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"datamilo/logger"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"

	MemoryDSN = ":memory:"
)

// Options selects and configures the warehouse connection.
type Options struct {
	Driver   string `mapstructure:"driver" yaml:"driver"`
	DSN      string `mapstructure:"dsn" yaml:"dsn"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"-"`
	Name     string `mapstructure:"name" yaml:"name"`
	MaxConns int    `mapstructure:"max_conns" yaml:"max_conns"`
	Seed     bool   `mapstructure:"seed" yaml:"seed"`
}

// ConnString returns DSN when set, otherwise a keyword/value string built
// from the individual settings.
func (o Options) ConnString() string {
	if o.DSN != "" {
		return o.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		o.Host, o.Port, o.User, o.Password, o.Name)
}

// Open connects to the configured warehouse. An in-memory sqlite database
// is always seeded with the sample data set, other backends only when Seed
// is set.
func Open(ctx context.Context, opts Options, log logger.Logger) (Store, error) {
	var store Store
	seed := opts.Seed

	switch opts.Driver {
	case "", "sqlite", DriverSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = MemoryDSN
		}
		db, err := sql.Open(DriverSQLite, dsn)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		}
		// every :memory: connection is a separate database
		db.SetMaxOpenConns(1)
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: ping: %v", ErrConnectionFailed, err)
		}
		store = NewSQLExecutor(db, DriverSQLite)
		seed = seed || dsn == MemoryDSN
		log.Info("Opened sqlite warehouse", map[string]interface{}{"dsn": dsn})

	case DriverPostgres:
		db, err := sql.Open(DriverPostgres, opts.ConnString())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		}
		if opts.MaxConns > 0 {
			db.SetMaxOpenConns(opts.MaxConns)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: ping: %v", ErrConnectionFailed, err)
		}
		store = NewSQLExecutor(db, DriverPostgres)
		log.Info("Successfully connected to the database", map[string]interface{}{
			"driver": DriverPostgres, "host": opts.Host, "database": opts.Name,
		})

	case DriverPgx:
		pgx, err := NewPgxExecutor(ctx, opts, log)
		if err != nil {
			return nil, err
		}
		store = pgx

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, opts.Driver)
	}

	if seed {
		if err := Seed(ctx, store); err != nil {
			store.Close()
			return nil, err
		}
		log.Info("Loaded sample warehouse", map[string]interface{}{
			"users": len(SampleUsers), "products": len(SampleProducts), "sales": len(SampleSales),
		})
	}
	return store, nil
}
