// Package kv provides the durable key-value medium underneath the store.
// Three drivers are available: a BoltDB file (the default), a SQLite file,
// and an in-memory map for tests and ephemeral runs.
package kv
