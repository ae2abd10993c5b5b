// ABOUTME: Store type, data records, and sentinel errors for the progression tracker
// ABOUTME: Manages the users/progress tables with per-table cache slots over a kv medium

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/2389/math-adventure/internal/kv"
)

// StorageVersion is written to the version key on first initialization.
const StorageVersion = "1.0.0"

// Logical keys in the backing medium.
const (
	keyVersion     = "math_adventure_version"
	keyUsers       = "math_adventure_users"
	keyCurrentUser = "math_adventure_current_user"
	keyProgress    = "math_adventure_progress"
)

// ErrUsernameTaken is returned when creating a user with a username that already exists.
var ErrUsernameTaken = errors.New("username already exists")

// ErrUserNotFound is returned when an operation references an unknown user id.
var ErrUserNotFound = errors.New("user not found")

// ErrItemNotOwned is returned when equipping an item the user does not own.
var ErrItemNotOwned = errors.New("item not owned")

// ErrInvalidData is returned when an imported snapshot cannot be parsed.
var ErrInvalidData = errors.New("invalid data format")

// QuestStatus is the lifecycle state of a quest for one user.
type QuestStatus string

// Quest lifecycle states.
const (
	QuestNotStarted QuestStatus = "not_started"
	QuestInProgress QuestStatus = "in_progress"
	QuestCompleted  QuestStatus = "completed"
)

// User is an identity record. ID, Username, PasswordHash and CreatedAt are
// immutable after creation; the remaining fields are mutated through
// UpdateUser and the reward helpers.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"passwordHash"`
	CreatedAt    time.Time    `json:"createdAt"`
	Level        int          `json:"level"`
	TotalGems    int          `json:"totalGems"`
	TotalStars   int          `json:"totalStars"`
	AvatarData   AvatarConfig `json:"avatarData"`
	RoomData     RoomConfig   `json:"roomData"`
}

// AvatarConfig holds the cosmetic ids applied to a user's avatar.
type AvatarConfig struct {
	Clothing    []string `json:"clothing"`
	Pet         *string  `json:"pet"`
	Accessories []string `json:"accessories"`
}

// RoomConfig holds the furniture placed in a user's room.
type RoomConfig struct {
	Furniture []RoomItem `json:"furniture"`
}

// RoomItem is a placed furniture item.
type RoomItem struct {
	ItemID   string   `json:"itemId"`
	Position Position `json:"position"`
}

// Position is a 2-D placement coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UserProgress is the per-user progress record, 1:1 with User.
// Invariant: EquippedItems is a subset of OwnedItems.
type UserProgress struct {
	UserID        string                   `json:"userId"`
	QuestProgress map[string]QuestProgress `json:"questProgress"`
	EarnedBadges  []string                 `json:"earnedBadges"`
	OwnedItems    []string                 `json:"ownedItems"`
	EquippedItems []string                 `json:"equippedItems"`
}

// QuestProgress tracks one quest for one user. CompletedAt is set iff
// Status is QuestCompleted.
type QuestProgress struct {
	QuestID        string      `json:"questId"`
	Status         QuestStatus `json:"status"`
	Attempts       int         `json:"attempts"`
	CorrectAnswers int         `json:"correctAnswers"`
	TotalAnswers   int         `json:"totalAnswers"`
	CompletedAt    *time.Time  `json:"completedAt,omitempty"`
}

// UserUpdate carries the mutable User fields for UpdateUser. Nil fields are
// left unchanged. Identity fields cannot be updated.
type UserUpdate struct {
	Level      *int
	TotalGems  *int
	TotalStars *int
	AvatarData *AvatarConfig
	RoomData   *RoomConfig
}

// Store persists users and progress through a kv backing medium, shadowed by
// one cache slot per table. Not safe for concurrent use.
type Store struct {
	kv     kv.KV
	logger *slog.Logger

	usersCache     []User
	usersCached    bool
	progressCache  map[string]UserProgress
	progressCached bool
}

// New creates a Store over the given backing medium. Call Initialize before
// first use.
func New(backing kv.KV) *Store {
	return &Store{
		kv:     backing,
		logger: slog.Default().With("component", "store"),
	}
}

// Initialize writes the version marker and empty tables on first-ever run.
// It is idempotent: if the version marker is present, existing data is left
// untouched.
func (s *Store) Initialize(ctx context.Context) error {
	_, found, err := s.kv.Get(ctx, keyVersion)
	if err != nil {
		return fmt.Errorf("reading version marker: %w", err)
	}
	if found {
		return nil
	}

	if err := s.kv.Set(ctx, keyVersion, []byte(StorageVersion)); err != nil {
		return fmt.Errorf("writing version marker: %w", err)
	}
	if err := s.writeUsers(ctx, []User{}); err != nil {
		return err
	}
	if err := s.writeProgress(ctx, map[string]UserProgress{}); err != nil {
		return err
	}

	s.logger.Info("storage initialized", "version", StorageVersion)
	return nil
}

// Close releases the backing medium.
func (s *Store) Close() error {
	return s.kv.Close()
}

// invalidateUsers empties the users cache slot so the next read re-fetches
// from the backing medium.
func (s *Store) invalidateUsers() {
	s.usersCache = nil
	s.usersCached = false
}

// invalidateProgress empties the progress cache slot.
func (s *Store) invalidateProgress() {
	s.progressCache = nil
	s.progressCached = false
}

// writeUsers persists the whole users table in one set call and invalidates
// the users cache.
func (s *Store) writeUsers(ctx context.Context, users []User) error {
	payload, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshaling users: %w", err)
	}
	// Invalidate on failure too: the caller may have mutated the cached
	// slice, and a stale slot must never outlive a failed write.
	defer s.invalidateUsers()
	if err := s.kv.Set(ctx, keyUsers, payload); err != nil {
		return fmt.Errorf("writing users: %w", err)
	}
	return nil
}

// writeProgress persists the whole progress table in one set call and
// invalidates the progress cache.
func (s *Store) writeProgress(ctx context.Context, all map[string]UserProgress) error {
	payload, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("marshaling progress: %w", err)
	}
	defer s.invalidateProgress()
	if err := s.kv.Set(ctx, keyProgress, payload); err != nil {
		return fmt.Errorf("writing progress: %w", err)
	}
	return nil
}

// newUserProgress builds an empty progress record for a user.
func newUserProgress(userID string) UserProgress {
	return UserProgress{
		UserID:        userID,
		QuestProgress: map[string]QuestProgress{},
		EarnedBadges:  []string{},
		OwnedItems:    []string{},
		EquippedItems: []string{},
	}
}

// normalize replaces nil collections with empty ones. Imported snapshots may
// carry records with null or missing collections; every record handed to
// callers must have an indexable quest map and appendable slices.
func (p *UserProgress) normalize() {
	if p.QuestProgress == nil {
		p.QuestProgress = map[string]QuestProgress{}
	}
	if p.EarnedBadges == nil {
		p.EarnedBadges = []string{}
	}
	if p.OwnedItems == nil {
		p.OwnedItems = []string{}
	}
	if p.EquippedItems == nil {
		p.EquippedItems = []string{}
	}
}
