// Package notify implements the ephemeral notification queue consumed by
// the UI layer. Entries are never persisted. Each entry with a positive
// duration gets its own dismissal timer; the front of the FIFO is the one
// active notification.
package notify
