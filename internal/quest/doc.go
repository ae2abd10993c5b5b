// Package quest tracks per-user quest progress as a small state machine:
// not_started -> in_progress -> completed. Records live in the store's
// progress table; the tracker itself holds no durable state.
package quest
