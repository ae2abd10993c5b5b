// ABOUTME: Progress table operations: lazy record creation and quest upserts
// ABOUTME: Reads go through the progress cache slot; writes replace the whole table

package store

import (
	"context"
	"encoding/json"
)

// allProgress returns the whole progress table, from cache when present.
// Unreadable or unparsable content is logged and treated as empty.
func (s *Store) allProgress(ctx context.Context) map[string]UserProgress {
	if s.progressCached {
		return s.progressCache
	}

	all := map[string]UserProgress{}
	payload, found, err := s.kv.Get(ctx, keyProgress)
	if err != nil {
		s.logger.Error("error reading progress", "error", err)
	} else if found {
		if err := json.Unmarshal(payload, &all); err != nil {
			s.logger.Error("error parsing progress", "error", err)
			all = map[string]UserProgress{}
		}
	}

	for id, record := range all {
		record.normalize()
		all[id] = record
	}

	s.progressCache = all
	s.progressCached = true
	return all
}

// UserProgress returns the progress record for a user, creating and
// persisting an empty one if absent. The lazy creation is idempotent and
// doubles as recovery for a user row written without its progress record.
func (s *Store) UserProgress(ctx context.Context, userID string) (UserProgress, error) {
	all := s.allProgress(ctx)

	record, ok := all[userID]
	if !ok {
		record = newUserProgress(userID)
		all[userID] = record
		if err := s.writeProgress(ctx, all); err != nil {
			return UserProgress{}, err
		}
	}

	return record, nil
}

// QuestProgress returns the progress for one quest, or nil if the user has
// never started it.
func (s *Store) QuestProgress(ctx context.Context, userID, questID string) (*QuestProgress, error) {
	record, err := s.UserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	qp, ok := record.QuestProgress[questID]
	if !ok {
		return nil, nil
	}
	return &qp, nil
}

// UpdateQuestProgress upserts the quest progress at (userID, questID) and
// persists the whole progress table.
func (s *Store) UpdateQuestProgress(ctx context.Context, userID, questID string, progress QuestProgress) error {
	all := s.allProgress(ctx)

	record, ok := all[userID]
	if !ok {
		record = newUserProgress(userID)
	}
	record.normalize()
	record.QuestProgress[questID] = progress
	all[userID] = record

	return s.writeProgress(ctx, all)
}
