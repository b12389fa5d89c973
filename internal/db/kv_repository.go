package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVRepository handles durable key-value persistence. It satisfies the
// store.KV port.
type KVRepository struct {
	db *DB
}

// NewKVRepository creates a new KVRepository.
func NewKVRepository(db *DB) *KVRepository {
	return &KVRepository{db: db}
}

// Read returns the value stored under key. ok is false when the key is absent.
func (r *KVRepository) Read(key string) ([]byte, bool, error) {
	ctx := context.Background()

	var value []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM kv WHERE key = ?
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	return value, true, nil
}

// Write stores value under key, replacing any previous value.
func (r *KVRepository) Write(key string, value []byte) error {
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, now)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}
