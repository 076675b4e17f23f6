package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS flow_slots (
    key        TEXT PRIMARY KEY,
    document   JSONB NOT NULL,
    saved_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// CreateSchema creates the flow_slots table if it doesn't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the flow_slots table.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS flow_slots;`)
	return err
}
