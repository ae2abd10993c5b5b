// ABOUTME: Store-level reward and ownership helpers: gems, stars, purchases, equipment, badges
// ABOUTME: Live in the store layer so every mutation shares its cache invalidation discipline

package store

import (
	"context"
	"slices"
)

// AddGems adds amount to the user's gem balance. Unknown user ids are
// ignored. The amount is not clamped; callers own the non-negative contract.
func (s *Store) AddGems(ctx context.Context, userID string, amount int) error {
	user := s.findUser(ctx, userID)
	if user == nil {
		return nil
	}

	total := user.TotalGems + amount
	return s.UpdateUser(ctx, userID, UserUpdate{TotalGems: &total})
}

// AddStars adds amount to the user's star balance and recomputes the level.
// Unknown user ids are ignored.
func (s *Store) AddStars(ctx context.Context, userID string, amount int) error {
	user := s.findUser(ctx, userID)
	if user == nil {
		return nil
	}

	total := user.TotalStars + amount
	if err := s.UpdateUser(ctx, userID, UserUpdate{TotalStars: &total}); err != nil {
		return err
	}

	_, err := s.CheckLevelUp(ctx, userID)
	return err
}

// CheckLevelUp recomputes the user's level from the star total (10 stars per
// level) and persists it if it increased. Reports whether a level-up
// happened.
func (s *Store) CheckLevelUp(ctx context.Context, userID string) (bool, error) {
	user := s.findUser(ctx, userID)
	if user == nil {
		return false, nil
	}

	newLevel := user.TotalStars/10 + 1
	if newLevel <= user.Level {
		return false, nil
	}

	if err := s.UpdateUser(ctx, userID, UserUpdate{Level: &newLevel}); err != nil {
		return false, err
	}
	s.logger.Info("level up", "user_id", userID, "level", newLevel)
	return true, nil
}

// PurchaseItem deducts cost from the user's gems and adds itemID to the
// owned set. Returns false without mutation if the user is unknown, cannot
// afford the item, or already owns it. The check-then-act sequence is not
// locked; the store assumes a single writer.
func (s *Store) PurchaseItem(ctx context.Context, userID, itemID string, cost int) (bool, error) {
	user := s.findUser(ctx, userID)
	if user == nil {
		return false, nil
	}
	if user.TotalGems < cost {
		return false, nil
	}

	record, err := s.UserProgress(ctx, userID)
	if err != nil {
		return false, err
	}
	if slices.Contains(record.OwnedItems, itemID) {
		return false, nil
	}

	remaining := user.TotalGems - cost
	if err := s.UpdateUser(ctx, userID, UserUpdate{TotalGems: &remaining}); err != nil {
		return false, err
	}

	all := s.allProgress(ctx)
	record = all[userID]
	record.OwnedItems = append(record.OwnedItems, itemID)
	all[userID] = record
	if err := s.writeProgress(ctx, all); err != nil {
		return false, err
	}

	s.logger.Info("item purchased", "user_id", userID, "item_id", itemID, "cost", cost)
	return true, nil
}

// EquipItem toggles itemID in the user's equipped set: equip if absent,
// unequip if present. Returns ErrItemNotOwned if the item is not owned,
// which keeps equipped a subset of owned.
func (s *Store) EquipItem(ctx context.Context, userID, itemID string) error {
	record, err := s.UserProgress(ctx, userID)
	if err != nil {
		return err
	}
	if !slices.Contains(record.OwnedItems, itemID) {
		return ErrItemNotOwned
	}

	all := s.allProgress(ctx)
	record = all[userID]
	if i := slices.Index(record.EquippedItems, itemID); i >= 0 {
		record.EquippedItems = slices.Delete(record.EquippedItems, i, i+1)
	} else {
		record.EquippedItems = append(record.EquippedItems, itemID)
	}
	all[userID] = record

	return s.writeProgress(ctx, all)
}

// AwardBadge adds badgeID to the user's earned set. Awarding an
// already-earned badge is a no-op, so redundant calls are safe.
func (s *Store) AwardBadge(ctx context.Context, userID, badgeID string) error {
	record, err := s.UserProgress(ctx, userID)
	if err != nil {
		return err
	}
	if slices.Contains(record.EarnedBadges, badgeID) {
		return nil
	}

	all := s.allProgress(ctx)
	record = all[userID]
	record.EarnedBadges = append(record.EarnedBadges, badgeID)
	all[userID] = record

	if err := s.writeProgress(ctx, all); err != nil {
		return err
	}
	s.logger.Info("badge awarded", "user_id", userID, "badge_id", badgeID)
	return nil
}
