package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/brand-registry/backend/internal/observability/metrics"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type txKey struct{}

type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type PgxTxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{pool: pool}
}

// WithTx runs fn inside a transaction carried on the context. Repositories
// resolve their connection through Conn, so any repository call made with the
// returned context joins the transaction. Nested calls reuse the outer one.
func (m *PgxTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		metrics.DBTransactionsTotal.WithLabelValues("begin_failed").Inc()
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			metrics.DBTransactionsTotal.WithLabelValues("rollback").Inc()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			metrics.DBTransactionsTotal.WithLabelValues("rollback").Inc()
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			metrics.DBTransactionsTotal.WithLabelValues("commit_failed").Inc()
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
			return
		}
		metrics.DBTransactionsTotal.WithLabelValues("commit").Inc()
	}()

	return fn(context.WithValue(ctx, txKey{}, tx))
}

// Conn returns the transaction carried by ctx, or the pool otherwise.
func Conn(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// NoopTxManager runs fn directly. Used where no database is wired, such as
// unit tests with in-memory repositories.
type NoopTxManager struct{}

func (NoopTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
