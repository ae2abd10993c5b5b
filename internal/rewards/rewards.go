// ABOUTME: Ownership and equipment manager: purchase, equip toggle, owned/equipped queries
// ABOUTME: All operations act on the active session user and no-op when nobody is logged in

package rewards

import (
	"context"
	"log/slog"
	"slices"

	"github.com/2389/math-adventure/internal/catalog"
	"github.com/2389/math-adventure/internal/ledger"
	"github.com/2389/math-adventure/internal/session"
	"github.com/2389/math-adventure/internal/store"
)

// Manager handles item ownership, equipment, and badges for the active user.
type Manager struct {
	store   *store.Store
	session *session.Manager
	ledger  *ledger.Ledger
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// New creates a rewards manager.
func New(s *store.Store, sess *session.Manager, l *ledger.Ledger, c *catalog.Catalog) *Manager {
	return &Manager{
		store:   s,
		session: sess,
		ledger:  l,
		catalog: c,
		logger:  slog.Default().With("component", "rewards"),
	}
}

// progress returns the active user's progress record, or false when nobody
// is logged in.
func (m *Manager) progress(ctx context.Context) (store.UserProgress, bool, error) {
	user := m.session.CurrentUser()
	if user == nil {
		return store.UserProgress{}, false, nil
	}
	record, err := m.store.UserProgress(ctx, user.ID)
	if err != nil {
		return store.UserProgress{}, false, err
	}
	return record, true, nil
}

// Owns reports whether the active user owns the item.
func (m *Manager) Owns(ctx context.Context, itemID string) (bool, error) {
	record, ok, err := m.progress(ctx)
	if err != nil || !ok {
		return false, err
	}
	return slices.Contains(record.OwnedItems, itemID), nil
}

// IsEquipped reports whether the active user has the item equipped.
func (m *Manager) IsEquipped(ctx context.Context, itemID string) (bool, error) {
	record, ok, err := m.progress(ctx)
	if err != nil || !ok {
		return false, err
	}
	return slices.Contains(record.EquippedItems, itemID), nil
}

// OwnedItems returns the active user's owned item ids.
func (m *Manager) OwnedItems(ctx context.Context) ([]string, error) {
	record, ok, err := m.progress(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return record.OwnedItems, nil
}

// EquippedItems returns the active user's equipped item ids.
func (m *Manager) EquippedItems(ctx context.Context) ([]string, error) {
	record, ok, err := m.progress(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return record.EquippedItems, nil
}

// EquippedItemsByType returns the equipped item ids whose catalog entry has
// the given type (clothing, pet, accessory, furniture).
func (m *Manager) EquippedItemsByType(ctx context.Context, itemType string) ([]string, error) {
	equipped, err := m.EquippedItems(ctx)
	if err != nil {
		return nil, err
	}

	var filtered []string
	for _, id := range equipped {
		if item, ok := m.catalog.Item(id); ok && item.Type == itemType {
			filtered = append(filtered, id)
		}
	}
	return filtered, nil
}

// Purchase buys an item for the active user. Returns false without mutation
// when nobody is logged in, the item is already owned, or the gem balance is
// short. The purchased item is owned but not equipped.
func (m *Manager) Purchase(ctx context.Context, item catalog.Item) (bool, error) {
	user := m.session.CurrentUser()
	if user == nil {
		return false, nil
	}

	owned, err := m.Owns(ctx, item.ID)
	if err != nil {
		return false, err
	}
	if owned {
		return false, nil
	}
	if !m.ledger.CanPurchase(item.CostGems) {
		return false, nil
	}

	ok, err := m.store.PurchaseItem(ctx, user.ID, item.ID, item.CostGems)
	if err != nil {
		return false, err
	}
	if ok {
		m.session.Refresh(ctx)
	}
	return ok, nil
}

// Equip toggles the equip state of an owned item: equip if unequipped,
// unequip if equipped. Returns store.ErrItemNotOwned for unowned items.
func (m *Manager) Equip(ctx context.Context, itemID string) error {
	user := m.session.CurrentUser()
	if user == nil {
		return nil
	}
	return m.store.EquipItem(ctx, user.ID, itemID)
}
