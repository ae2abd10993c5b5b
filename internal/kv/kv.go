// ABOUTME: KV interface and driver selection for the backing key-value medium
// ABOUTME: Defines the get/set-by-key contract shared by the bolt, sqlite and memory drivers

package kv

import (
	"context"
	"fmt"
)

// Driver names accepted by Open.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// KV is the durable key-value substrate underneath the store. Values are
// opaque byte payloads; a missing key is reported via the found flag, not an
// error. Set replaces the whole value for a key in a single call.
type KV interface {
	// Get returns the value stored under key, or found=false if the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the driver.
	Close() error
}

// Open creates a KV using the named driver. The path is ignored by the
// memory driver.
func Open(driver, path string) (KV, error) {
	switch driver {
	case DriverBolt:
		return OpenBolt(path)
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown kv driver %q", driver)
	}
}
