package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoScope is returned when a repository is called without a database scope in context.
var ErrNoScope = errors.New("no database scope in context")

// Scope holds the connection used for one request, and the open transaction
// if the request is inside WithTx.
type Scope struct {
	Conn *pgxpool.Conn
	tx   pgx.Tx
}

// Querier returns the transaction when one is open, otherwise the connection.
func (s *Scope) Querier() Querier {
	if s.tx != nil {
		return s.tx
	}
	return s.Conn
}

// InTx reports whether the scope is inside a transaction.
func (s *Scope) InTx() bool {
	return s.tx != nil
}

// Close releases the connection back to the pool.
// This MUST be called once the request is done with the scope.
func (s *Scope) Close() {
	if s.Conn == nil {
		return
	}
	s.Conn.Release()
	s.Conn = nil
}

// Acquire takes a connection from the pool and wraps it in a Scope.
// The returned Scope MUST be closed with defer scope.Close().
func (db *DB) Acquire(ctx context.Context) (*Scope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &Scope{Conn: conn}, nil
}

// QuerierFrom returns the querier of the scope stored in ctx.
func QuerierFrom(ctx context.Context) (Querier, error) {
	scope, ok := GetScope(ctx)
	if !ok || scope.Conn == nil {
		return nil, ErrNoScope
	}
	return scope.Querier(), nil
}

// WithTx runs fn inside a transaction on the scope's connection. fn receives a
// context whose scope routes every repository call through the transaction.
// Nested calls reuse the outer transaction.
func WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	scope, ok := GetScope(ctx)
	if !ok || scope.Conn == nil {
		return ErrNoScope
	}
	if scope.InTx() {
		return fn(ctx)
	}

	tx, err := scope.Conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txCtx := SetScope(ctx, &Scope{Conn: scope.Conn, tx: tx})
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
