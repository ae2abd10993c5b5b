// ABOUTME: Badge evaluation and idempotent awarding for the active user
// ABOUTME: Partial evaluator: the quest-based criteria are owned by the caller

package rewards

import (
	"context"
	"slices"

	"github.com/2389/math-adventure/internal/catalog"
)

// HasBadge reports whether the active user has earned the badge.
func (m *Manager) HasBadge(ctx context.Context, badgeID string) (bool, error) {
	record, ok, err := m.progress(ctx)
	if err != nil || !ok {
		return false, err
	}
	return slices.Contains(record.EarnedBadges, badgeID), nil
}

// EarnedBadges returns the active user's earned badge ids.
func (m *Manager) EarnedBadges(ctx context.Context) ([]string, error) {
	record, ok, err := m.progress(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return record.EarnedBadges, nil
}

// CheckUnlock reports whether a badge should unlock now. Already-earned
// badges never re-unlock. Only the gems_earned and stars_earned criteria
// are evaluated here; quest_complete and quests_completed need quest context
// the caller owns, so they always return false and the caller must check
// them against the tracker.
func (m *Manager) CheckUnlock(ctx context.Context, badge catalog.Badge) (bool, error) {
	earned, err := m.HasBadge(ctx, badge.ID)
	if err != nil {
		return false, err
	}
	if earned {
		return false, nil
	}

	switch badge.UnlockCriteria.Type {
	case catalog.CriteriaGemsEarned:
		return m.ledger.TotalGems() >= badge.UnlockCriteria.Threshold(), nil
	case catalog.CriteriaStarsEarned:
		return m.ledger.TotalStars() >= badge.UnlockCriteria.Threshold(), nil
	case catalog.CriteriaQuestComplete, catalog.CriteriaQuestsCompleted:
		// Evaluated by the caller with tracker state
		return false, nil
	default:
		return false, nil
	}
}

// AwardBadge adds the badge to the active user's earned set. Safe to call
// redundantly; duplicate awards are no-ops.
func (m *Manager) AwardBadge(ctx context.Context, badgeID string) error {
	user := m.session.CurrentUser()
	if user == nil {
		return nil
	}
	return m.store.AwardBadge(ctx, user.ID, badgeID)
}
