// ABOUTME: User table operations: creation, authentication, mutation, current user
// ABOUTME: Enforces username uniqueness and keeps identity fields immutable

package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// hashPassword computes the credential digest for a password.
//
// WARNING: a plain unsalted digest is for demo purposes only. There is no
// per-user salt and no iterated key derivation; do not treat this as a
// production credential scheme.
func hashPassword(password string) string {
	sum := sha3.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Users returns all users. The cached table is returned when present;
// otherwise the backing medium is read and the cache populated. Unreadable
// or unparsable content is logged and treated as an empty table so the store
// stays usable.
func (s *Store) Users(ctx context.Context) []User {
	if s.usersCached {
		return s.usersCache
	}

	users := []User{}
	payload, found, err := s.kv.Get(ctx, keyUsers)
	if err != nil {
		s.logger.Error("error reading users", "error", err)
	} else if found {
		if err := json.Unmarshal(payload, &users); err != nil {
			s.logger.Error("error parsing users", "error", err)
			users = []User{}
		}
	}

	s.usersCache = users
	s.usersCached = true
	return users
}

// findUser returns a copy of the user with the given id, or nil.
func (s *Store) findUser(ctx context.Context, id string) *User {
	for _, u := range s.Users(ctx) {
		if u.ID == id {
			return &u
		}
	}
	return nil
}

// CreateUser registers a new user and an empty progress record for it.
// Returns ErrUsernameTaken if the username exists (case-sensitive exact
// match). The new user starts at level 1 with zero balances and empty
// avatar/room configs.
func (s *Store) CreateUser(ctx context.Context, username, password string) (*User, error) {
	users := s.Users(ctx)

	for _, u := range users {
		if u.Username == username {
			return nil, ErrUsernameTaken
		}
	}

	user := User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hashPassword(password),
		CreatedAt:    time.Now().UTC(),
		Level:        1,
		TotalGems:    0,
		TotalStars:   0,
		AvatarData: AvatarConfig{
			Clothing:    []string{},
			Pet:         nil,
			Accessories: []string{},
		},
		RoomData: RoomConfig{
			Furniture: []RoomItem{},
		},
	}

	users = append(users, user)
	if err := s.writeUsers(ctx, users); err != nil {
		return nil, err
	}

	// A crash between the two table writes leaves a user without a progress
	// record; the lazy creation in UserProgress recovers that gap.
	all := s.allProgress(ctx)
	all[user.ID] = newUserProgress(user.ID)
	if err := s.writeProgress(ctx, all); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "username", username)
	return &user, nil
}

// AuthenticateUser recomputes the credential digest and looks for an exact
// (username, digest) match. It returns nil on any mismatch and does not
// distinguish an unknown username from a wrong password.
func (s *Store) AuthenticateUser(ctx context.Context, username, password string) *User {
	digest := hashPassword(password)
	for _, u := range s.Users(ctx) {
		if u.Username == username && u.PasswordHash == digest {
			return &u
		}
	}
	return nil
}

// UpdateUser replaces the mutable fields of the user with the given id.
// Identity fields (id, username, credential digest, creation time) are never
// touched. Returns ErrUserNotFound for an unknown id.
func (s *Store) UpdateUser(ctx context.Context, id string, update UserUpdate) error {
	users := s.Users(ctx)

	idx := -1
	for i, u := range users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrUserNotFound
	}

	if update.Level != nil {
		users[idx].Level = *update.Level
	}
	if update.TotalGems != nil {
		users[idx].TotalGems = *update.TotalGems
	}
	if update.TotalStars != nil {
		users[idx].TotalStars = *update.TotalStars
	}
	if update.AvatarData != nil {
		users[idx].AvatarData = *update.AvatarData
	}
	if update.RoomData != nil {
		users[idx].RoomData = *update.RoomData
	}

	return s.writeUsers(ctx, users)
}

// CurrentUserID returns the persisted current-user id, if any.
func (s *Store) CurrentUserID(ctx context.Context) (string, bool) {
	payload, found, err := s.kv.Get(ctx, keyCurrentUser)
	if err != nil {
		s.logger.Error("error reading current user", "error", err)
		return "", false
	}
	if !found || len(payload) == 0 {
		return "", false
	}
	return string(payload), true
}

// CurrentUser returns the current user record, or nil if no user is active.
func (s *Store) CurrentUser(ctx context.Context) *User {
	id, ok := s.CurrentUserID(ctx)
	if !ok {
		return nil
	}
	return s.findUser(ctx, id)
}

// SetCurrentUser persists the current-user id.
func (s *Store) SetCurrentUser(ctx context.Context, userID string) error {
	if err := s.kv.Set(ctx, keyCurrentUser, []byte(userID)); err != nil {
		return fmt.Errorf("writing current user: %w", err)
	}
	return nil
}

// ClearCurrentUser removes the current-user key.
func (s *Store) ClearCurrentUser(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyCurrentUser); err != nil {
		return fmt.Errorf("clearing current user: %w", err)
	}
	return nil
}
