package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/emzola/bookreviews/data"
)

type users interface {
	RegisterUser(ctx context.Context, user *data.User) error
	GetUserByID(ctx context.Context, userID int64) (*data.User, error)
	GetUserByEmail(ctx context.Context, email string) (*data.User, error)
	GetUserForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*data.User, error)
}

const userColumns = `users.id, users.created_at, users.name, users.email, users.password_hash, users.version`

func scanUser(row scanner) (*data.User, error) {
	var user data.User
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Name,
		&user.Email,
		&user.Password.Hash,
		&user.Version,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterUser registers a new user.
func (r *repository) RegisterUser(ctx context.Context, user *data.User) error {
	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version`
	args := []any{user.Name, user.Email, user.Password.Hash}
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Version,
	)
	if err != nil {
		switch {
		case pqErrorCode(err) == codeUniqueViolation:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetUserByID retrieves a user record by its ID.
func (r *repository) GetUserByID(ctx context.Context, userID int64) (*data.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

// GetUserByEmail retrieves a user record by its email.
func (r *repository) GetUserByEmail(ctx context.Context, email string) (*data.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

// GetUserForToken returns the user owning an unexpired token.
func (r *repository) GetUserForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*data.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		INNER JOIN tokens
		ON users.id = tokens.user_id
		WHERE tokens.hash = $1
		AND tokens.scope = $2
		AND tokens.expiry > $3`
	args := []any{data.HashToken(tokenPlaintext), tokenScope, time.Now()}
	ctx, cancel := QueryContext(ctx)
	defer cancel()
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}
