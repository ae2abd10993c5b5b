// Package session tracks which user is currently active. It is a thin layer
// over the store's current-user key plus an in-process copy of the active
// user record.
package session
