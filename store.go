package flow

import (
	"context"
	"errors"
)

var (
	ErrInvalidReference  = errors.New("flow: edge endpoint does not reference a node")
	ErrMalformedDocument = errors.New("flow: malformed document")
	ErrSlotEmpty         = errors.New("flow: save slot is empty")
)

// SlotStore defines the contract for the local save slot: a named, opaque
// key-value entry holding the latest serialized document. Every Save
// overwrites the previous value; there is no history.
type SlotStore interface {
	// Save writes doc under key, replacing whatever was there.
	Save(ctx context.Context, key string, doc []byte) error
	// Load returns the bytes stored under key, or ErrSlotEmpty.
	Load(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. No error if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}
