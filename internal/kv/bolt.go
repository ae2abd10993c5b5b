// ABOUTME: BoltDB implementation of the KV interface using go.etcd.io/bbolt
// ABOUTME: Stores all keys in a single bucket inside one database file

package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucket = "adventure"

// Bolt implements KV on top of a BoltDB file.
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) a BoltDB-backed KV at the given path.
// Parent directories are created if needed.
func OpenBolt(path string) (*Bolt, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Get returns the value stored under key.
func (b *Bolt) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var value []byte
	var found bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if raw == nil {
			return nil
		}
		found = true
		// Bolt-owned memory is only valid inside the transaction.
		value = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, found, nil
}

// Set stores value under key.
func (b *Bolt) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (b *Bolt) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}
