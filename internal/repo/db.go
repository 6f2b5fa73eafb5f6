// Package repo contains all database access logic for the note backend.
// Each entity has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
//
// Every query and mutation takes the caller's tenant id and intersects it in
// the WHERE clause. A row that exists under a different tenant is
// indistinguishable from a row that does not exist: both surface as
// domain.ErrNotFound.
package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and
// pgx.Tx. Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Store bundles one repo per entity, all bound to the same db handle.
// A Store built over a pgx.Tx gives a handler atomic multi-entity writes.
type Store struct {
	Notes   NoteRepo
	Tags    TagRepo
	Users   UserRepo
	Tenants TenantRepo
}

// NewStore constructs a Store backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation.
func NewStore(db db) Store {
	return Store{
		Notes:   NewNoteRepo(db),
		Tags:    NewTagRepo(db),
		Users:   NewUserRepo(db),
		Tenants: NewTenantRepo(db),
	}
}

// TxRunner runs a function against a Store bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise, so
// all writes performed through the Store either land together or not at all.
type TxRunner interface {
	InTx(ctx context.Context, fn func(s Store) error) error
}

// NewTxRunner returns a TxRunner over the given pool.
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return &poolTxRunner{pool: pool}
}

type poolTxRunner struct {
	pool *pgxpool.Pool
}

func (r *poolTxRunner) InTx(ctx context.Context, fn func(s Store) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.TxRunner.InTx: begin: %w", err)
	}
	defer func() {
		// No-op when the transaction already committed.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(NewStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TxRunner.InTx: commit: %w", err)
	}
	return nil
}
