// Package postgres is the SQL implementation of db.DbInterface. Amounts are
// stored as NUMERIC(78, 0), wide enough for any uint256.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/lendoor/lendoor-indexer/internal/config"
	"github.com/lendoor/lendoor-indexer/internal/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

const uniqueViolation = "23505"

var _ db.DbInterface = (*Database)(nil)

// DBTX is the subset of database/sql used by the queries.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

type Database struct {
	db                 *sql.DB
	maxPaginationLimit int64
}

func New(ctx context.Context, cfg config.DbConfig) (*Database, error) {
	conn, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return &Database{
		db:                 conn,
		maxPaginationLimit: cfg.MaxPaginationLimit,
	}, nil
}

// Migrate applies the embedded schema migrations.
func (d *Database) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, d.db, "migrations")
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// WithTransaction begins a transaction, runs fn with it attached to ctx, and
// commits on success or rolls back on error/panic. Nested calls join the
// outer transaction.
func (d *Database) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	return err
}

// conn returns the transaction of ctx if any
func (d *Database) conn(ctx context.Context) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return d.db
}

func (d *Database) limit(requested int64) int64 {
	if requested <= 0 || (d.maxPaginationLimit > 0 && requested > d.maxPaginationLimit) {
		return d.maxPaginationLimit
	}
	return requested
}

func insertError(err error, table, key string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &db.DuplicateKeyError{
			Key:     key,
			Message: table + " record already exists",
		}
	}
	return err
}

func notFoundError(err error, table, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &db.NotFoundError{
			Key:     key,
			Message: table + " record not found",
		}
	}
	return err
}

// upperBound maps the open end of a time range to the largest BIGINT
func upperBound(filter db.TimeRangeFilter) uint64 {
	if filter.To == 0 {
		return 1<<63 - 1
	}
	return filter.To
}
