// Package store owns all durable state for the progression tracker: the
// users and progress tables, the version marker, and the current-user key,
// all persisted through a kv.KV backing medium. Each table has exactly one
// in-memory cache slot, populated lazily on read and invalidated
// synchronously by every write that touches the table, so a read issued
// after a completed write always observes that write's effect.
//
// The store assumes a single writer. Operations are not safe for concurrent
// use from multiple goroutines, and two store instances sharing one backing
// file can clobber each other's writes through stale caches.
package store
