// Package rewards manages item ownership and equipment for the active user,
// and evaluates badge unlock criteria against ledger state. Purchases
// consult the ledger before deducting; equipped items always remain a
// subset of owned items.
package rewards
