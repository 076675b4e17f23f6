// Package redis implements flow.SlotStore on Redis. Each slot is a plain
// string key under an optional prefix, written without expiry.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/meikuraledutech/flow"
)

// Config holds connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store implements flow.SlotStore using a go-redis client.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

// NewWithClient wraps an existing client.
func NewWithClient(client goredis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// NewStore connects to Redis and pings it.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("flow: redis ping %s: %w", cfg.Addr, err)
	}
	return NewWithClient(client, cfg.Prefix), nil
}

// Close closes the underlying client.
func (s *Store) Close() error { return s.client.Close() }

// Save overwrites key with doc.
func (s *Store) Save(ctx context.Context, key string, doc []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, doc, 0).Err(); err != nil {
		return fmt.Errorf("flow: save slot %s: %w", key, err)
	}
	return nil
}

// Load returns the bytes under key, or flow.ErrSlotEmpty.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, flow.ErrSlotEmpty
		}
		return nil, fmt.Errorf("flow: load slot %s: %w", key, err)
	}
	return doc, nil
}

// Delete removes key. No error if the key doesn't exist.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("flow: delete slot %s: %w", key, err)
	}
	return nil
}
