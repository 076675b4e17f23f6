package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/flow"
)

// Save upserts doc under key, replacing any earlier document.
func (s *PGStore) Save(ctx context.Context, key string, doc []byte) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO flow_slots (key, document, saved_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET document = EXCLUDED.document, saved_at = EXCLUDED.saved_at`,
		key, doc,
	)
	if err != nil {
		return fmt.Errorf("flow: save slot %s: %w", key, err)
	}
	return nil
}

// Load returns the document saved under key.
// Returns flow.ErrSlotEmpty if nothing has been saved.
func (s *PGStore) Load(ctx context.Context, key string) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRow(ctx,
		`SELECT document FROM flow_slots WHERE key = $1`, key,
	).Scan(&doc)
	if err != nil {
		if isNoRows(err) {
			return nil, flow.ErrSlotEmpty
		}
		return nil, fmt.Errorf("flow: load slot %s: %w", key, err)
	}
	return doc, nil
}

// Delete removes the slot.
// No error if the slot doesn't exist.
func (s *PGStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM flow_slots WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("flow: delete slot %s: %w", key, err)
	}
	return nil
}

// isNoRows checks if the error is a "no rows" error from pgx.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
