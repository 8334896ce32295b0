// Package session keeps the signed-in user and bearer token of each browser
// session, persisted in durable storage under a single key.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"equipment-dashboard/internal/model"
	"equipment-dashboard/internal/storage"
)

// persisted is the serialized form written under the session key.
type persisted struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Store holds the identity of one browser session. The zero user and the
// empty token mean "absent".
type Store struct {
	storage storage.Storage
	key     string

	mu    sync.RWMutex
	user  *model.User
	token string
}

// NewStore returns an empty store bound to key. Call Restore to load a
// previously persisted session.
func NewStore(s storage.Storage, key string) *Store {
	return &Store{storage: s, key: key}
}

// Key is the durable storage key of this session.
func (s *Store) Key() string { return s.key }

// Restore loads the persisted pair. A missing, unparseable or incomplete
// entry leaves the store empty; only storage failures are returned.
func (s *Store) Restore(ctx context.Context) error {
	raw, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore session %q: %w", s.key, err)
	}

	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil || p.User == nil || p.Token == "" || !p.User.Role.Valid() {
		log.Printf("Discarding unusable session entry %q", s.key)
		if err := s.storage.Delete(ctx, s.key); err != nil {
			log.Printf("Failed to delete unusable session entry %q: %v", s.key, err)
		}
		return nil
	}

	s.mu.Lock()
	s.user = p.User
	s.token = p.Token
	s.mu.Unlock()
	return nil
}

// Login sets the user and token and persists them.
func (s *Store) Login(ctx context.Context, user model.User, token string) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	if !user.Role.Valid() {
		return fmt.Errorf("session: unknown role %q", user.Role)
	}

	raw, err := json.Marshal(persisted{User: &user, Token: token})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, raw); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()
	return nil
}

// Logout clears the user and token and removes the persisted entry. The
// in-memory state is cleared even when the storage delete fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	return s.storage.Delete(ctx, s.key)
}

// User returns a copy of the signed-in user.
func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// Token returns the current bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether both user and token are present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}
