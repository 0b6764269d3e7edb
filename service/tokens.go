package service

import (
	"context"
	"errors"

	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/internal/validator"
	"github.com/emzola/bookreviews/repository"
)

type tokens interface {
	CreateAuthenticationToken(ctx context.Context, email, password string) (*data.User, *data.Token, error)
	DeleteAuthenticationTokens(ctx context.Context, userID int64) error
}

// CreateAuthenticationToken service checks a user's credentials and issues a
// new authentication token.
func (s *service) CreateAuthenticationToken(ctx context.Context, email, password string) (*data.User, *data.Token, error) {
	email = data.NormalizeEmail(email)
	v := validator.New()
	data.ValidateEmail(v, email)
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, nil, s.failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, nil, ErrInvalidCredentials
		default:
			return nil, nil, err
		}
	}
	match, err := user.Password.Matches(password)
	if err != nil {
		return nil, nil, err
	}
	if !match {
		return nil, nil, ErrInvalidCredentials
	}
	token, err := s.repo.CreateNewToken(ctx, user.ID, s.config.Auth.TokenTTL, data.ScopeAuthentication)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// DeleteAuthenticationTokens service signs a user out of every session.
func (s *service) DeleteAuthenticationTokens(ctx context.Context, userID int64) error {
	err := s.repo.DeleteAllTokensForUser(ctx, data.ScopeAuthentication, userID)
	if err != nil {
		return translate(err)
	}
	return nil
}
