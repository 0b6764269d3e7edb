package repository_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/emzola/bookreviews/repository"
	"github.com/emzola/bookreviews/repository/postgres"
	"github.com/emzola/bookreviews/repository/repotest"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("BOOKREVIEWS_TEST_DSN")
	if dsn == "" {
		t.Skip("BOOKREVIEWS_TEST_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, postgres.Migrate(context.Background(), db))

	repotest.Run(t, func(t *testing.T) repository.Repository {
		_, err := db.Exec(`TRUNCATE reviews, books, tokens, users RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
		return repository.New(db)
	})
}
