package memory

import (
	"context"
	"strings"
	"time"

	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/repository"
)

// RegisterUser registers a new user. Emails are unique regardless of case.
func (s *Store) RegisterUser(ctx context.Context, user *data.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicateRecord
		}
	}
	user.ID = s.nextUserID
	s.nextUserID++
	user.CreatedAt = now()
	user.Version = 1
	stored := *user
	stored.Password.Plaintext = nil
	s.users[user.ID] = &stored
	return nil
}

// GetUserByID retrieves a user record by its ID.
func (s *Store) GetUserByID(ctx context.Context, userID int64) (*data.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

// GetUserByEmail retrieves a user record by its email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*data.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

// GetUserForToken returns the user owning an unexpired token.
func (s *Store) GetUserForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*data.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[string(data.HashToken(tokenPlaintext))]
	if !ok || token.Scope != tokenScope || !token.Expiry.After(time.Now()) {
		return nil, repository.ErrRecordNotFound
	}
	user, ok := s.users[token.UserID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

// CreateNewToken generates and stores a new token.
func (s *Store) CreateNewToken(ctx context.Context, userID int64, ttl time.Duration, scope string) (*data.Token, error) {
	token, err := data.GenerateToken(userID, ttl, scope)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return nil, repository.ErrRecordNotFound
	}
	stored := *token
	stored.Plaintext = ""
	s.tokens[string(token.Hash)] = &stored
	return token, nil
}

// DeleteAllTokensForUser deletes all tokens for a specific user and scope.
func (s *Store) DeleteAllTokensForUser(ctx context.Context, scope string, userID int64) error {
	if userID < 1 {
		return repository.ErrRecordNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for hash, token := range s.tokens {
		if token.UserID == userID && token.Scope == scope {
			delete(s.tokens, hash)
		}
	}
	return nil
}
