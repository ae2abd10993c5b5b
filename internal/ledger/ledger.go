// ABOUTME: Gems/stars ledger and the leveling formula for the active user
// ABOUTME: Stars drive the level: one level per 10 stars, starting at level 1

package ledger

import (
	"context"
	"log/slog"

	"github.com/2389/math-adventure/internal/session"
	"github.com/2389/math-adventure/internal/store"
)

// starsPerLevel is the width of one level in stars.
const starsPerLevel = 10

// LevelForStars derives the level from a star total.
func LevelForStars(totalStars int) int {
	return totalStars/starsPerLevel + 1
}

// LevelUp reports the outcome of an AddStars call.
type LevelUp struct {
	LeveledUp bool
	NewLevel  int
}

// Ledger mutates the active user's balances through the store.
type Ledger struct {
	store   *store.Store
	session *session.Manager
	logger  *slog.Logger
}

// New creates a ledger bound to the given store and session.
func New(s *store.Store, sess *session.Manager) *Ledger {
	return &Ledger{
		store:   s,
		session: sess,
		logger:  slog.Default().With("component", "ledger"),
	}
}

// Level returns the active user's level, or 1 when nobody is logged in.
func (l *Ledger) Level() int {
	if user := l.session.CurrentUser(); user != nil {
		return user.Level
	}
	return 1
}

// TotalGems returns the active user's gem balance.
func (l *Ledger) TotalGems() int {
	if user := l.session.CurrentUser(); user != nil {
		return user.TotalGems
	}
	return 0
}

// TotalStars returns the active user's star balance.
func (l *Ledger) TotalStars() int {
	if user := l.session.CurrentUser(); user != nil {
		return user.TotalStars
	}
	return 0
}

// StarsToNextLevel returns how many stars the active user still needs for
// the next level.
func (l *Ledger) StarsToNextLevel() int {
	return starsPerLevel - l.TotalStars()%starsPerLevel
}

// LevelProgress returns how far into the current level the active user is,
// as a percentage.
func (l *Ledger) LevelProgress() float64 {
	return float64(l.TotalStars()%starsPerLevel) / starsPerLevel * 100
}

// AddGems adds amount to the active user's gems. The amount is not clamped;
// callers own the non-negative contract. No-op without an active user.
func (l *Ledger) AddGems(ctx context.Context, amount int) error {
	user := l.session.CurrentUser()
	if user == nil {
		return nil
	}

	if err := l.store.AddGems(ctx, user.ID, amount); err != nil {
		return err
	}
	l.session.Refresh(ctx)
	return nil
}

// AddStars adds amount to the active user's stars, recomputes the level,
// and reports whether the user leveled up.
func (l *Ledger) AddStars(ctx context.Context, amount int) (LevelUp, error) {
	user := l.session.CurrentUser()
	if user == nil {
		return LevelUp{NewLevel: 1}, nil
	}

	oldLevel := user.Level
	if err := l.store.AddStars(ctx, user.ID, amount); err != nil {
		return LevelUp{}, err
	}
	l.session.Refresh(ctx)

	newLevel := l.Level()
	return LevelUp{
		LeveledUp: newLevel > oldLevel,
		NewLevel:  newLevel,
	}, nil
}

// CanPurchase reports whether the active user can afford the given cost.
func (l *Ledger) CanPurchase(cost int) bool {
	return l.TotalGems() >= cost
}

// SpendGems deducts amount from the active user's gems. Returns false
// without mutation when the balance is short or nobody is logged in.
func (l *Ledger) SpendGems(ctx context.Context, amount int) (bool, error) {
	if !l.CanPurchase(amount) {
		return false, nil
	}
	user := l.session.CurrentUser()
	if user == nil {
		return false, nil
	}

	remaining := user.TotalGems - amount
	if err := l.store.UpdateUser(ctx, user.ID, store.UserUpdate{TotalGems: &remaining}); err != nil {
		return false, err
	}
	l.session.Refresh(ctx)
	return true, nil
}
