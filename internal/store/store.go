// Package store implements SQLite persistence for the lifecycle engine.
// Every store operates over DBTX so the engine can rebind a set of stores to
// one *sql.Tx and commit a state transition, its ledger entry, streak update,
// and notifications atomically.
package store

import "database/sql"

// DBTX is the subset of database operations shared by *sql.DB and *sql.Tx.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type scanner interface{ Scan(...any) error }
