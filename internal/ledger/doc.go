// Package ledger manages the gems and stars balances of the active user and
// derives the level from the star total. Balances live on the user record in
// the store; the ledger holds no durable state.
package ledger
