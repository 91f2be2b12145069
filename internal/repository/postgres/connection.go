package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/easy-books/easy-books-server/database"
)

// PoolConfig contains connection pool parameters.
type PoolConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	OperationTimeout time.Duration
}

// Connection is a pgx pool exposed through database/sql.
type Connection struct {
	*sql.DB
	pool      *pgxpool.Pool
	opTimeout time.Duration
}

// NewConnection opens the pool, applies migrations and returns the connection.
func NewConnection(ctx context.Context, cfg PoolConfig) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		conf.MaxConns = cfg.MaxConns
	}
	conf.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Connection{
		DB:        db,
		pool:      pool,
		opTimeout: cfg.OperationTimeout,
	}, nil
}

// NewConnectionFromDB wraps an existing handle without a pgx pool.
func NewConnectionFromDB(db *sql.DB, opTimeout time.Duration) *Connection {
	return &Connection{DB: db, opTimeout: opTimeout}
}

func (c *Connection) Close() error {
	var err error
	if c.DB != nil {
		err = c.DB.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}
	return err
}

func (c *Connection) Ping(ctx context.Context) error {
	if c.DB == nil {
		return fmt.Errorf("connection is nil")
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", classify(err))
	}
	return nil
}

// Stat returns pool statistics, or nil when there is no pgx pool.
func (c *Connection) Stat() *pgxpool.Stat {
	if c.pool == nil {
		return nil
	}
	return c.pool.Stat()
}

// withTimeout bounds a single storage operation, including the wait for a pooled connection.
func (c *Connection) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.opTimeout)
}

// withTx runs fn in a transaction. fn's error is returned as is and rolls the transaction back.
func (c *Connection) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classify(err))
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classify(err))
	}

	return nil
}
