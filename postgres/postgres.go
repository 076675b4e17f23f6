// Package postgres implements flow.SlotStore on PostgreSQL via pgx.
//
// Each slot is one row of flow_slots keyed by name; saving upserts the row
// so the table only ever holds the latest document per slot.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements flow.SlotStore using PostgreSQL via pgx.
type PGStore struct {
	db *pgxpool.Pool
}

// New creates a new PGStore backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}
