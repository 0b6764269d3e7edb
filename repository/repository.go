package repository

import (
	"context"
	"database/sql"
	"time"
)

// Repository defines the app's repository layer. Every method receives the
// caller's context, which each implementation caps with queryTimeout.
type Repository interface {
	books
	reviews
	users
	tokens
}

// queryTimeout bounds every storage call.
const queryTimeout = 3 * time.Second

// QueryContext derives the context a single storage call runs under.
func QueryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// repository is the PostgreSQL implementation of Repository.
type repository struct {
	db *sql.DB
}

// New creates a new instance of Repository.
func New(db *sql.DB) *repository {
	return &repository{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
