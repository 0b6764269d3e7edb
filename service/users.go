package service

import (
	"context"
	"errors"
	"strings"

	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/internal/mailer"
	"github.com/emzola/bookreviews/internal/validator"
	"github.com/emzola/bookreviews/repository"
)

type users interface {
	RegisterUser(ctx context.Context, name, email, password string) (*data.User, *data.Token, error)
	GetUser(ctx context.Context, userID int64) (*data.User, error)
	GetUserForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*data.User, error)
}

// RegisterUser service registers a new user and signs them in.
func (s *service) RegisterUser(ctx context.Context, name, email, password string) (*data.User, *data.Token, error) {
	user := &data.User{
		Name:  strings.TrimSpace(name),
		Email: data.NormalizeEmail(email),
	}
	user.Password.Plaintext = &password
	v := validator.New()
	data.ValidateUser(v, user)
	if !v.Valid() {
		return nil, nil, s.failedValidation(v.Errors)
	}
	err := user.Password.Set(password)
	if err != nil {
		return nil, nil, err
	}
	err = s.repo.RegisterUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("email", "a user with this email address already exists")
			return nil, nil, s.failedValidation(v.Errors)
		default:
			return nil, nil, err
		}
	}
	token, err := s.repo.CreateNewToken(ctx, user.ID, s.config.Auth.TokenTTL, data.ScopeAuthentication)
	if err != nil {
		return nil, nil, err
	}
	if s.mailer != nil {
		s.background(func() {
			data := map[string]any{
				"name":   strings.Split(user.Name, " ")[0],
				"userID": user.ID,
			}
			err := s.mailer.Send(user.Email, mailer.TemplateUserWelcome, data)
			if err != nil {
				s.logger.PrintError(err, map[string]string{"user_id": itoa(user.ID)})
			}
		})
	}
	return user, token, nil
}

// GetUser service retrieves a user.
func (s *service) GetUser(ctx context.Context, userID int64) (*data.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

// GetUserForToken service returns the user holding a valid token. An unknown
// or expired token fails validation.
func (s *service) GetUserForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*data.User, error) {
	v := validator.New()
	if data.ValidateTokenPlaintext(v, tokenPlaintext); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserForToken(ctx, tokenScope, tokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("token", "invalid or expired token")
			return nil, s.failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	return user, nil
}
