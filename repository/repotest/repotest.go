// Package repotest holds the behaviour every repository.Repository
// implementation must share. Each implementation's tests call Run.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty repository for a single subtest.
type Factory func(t *testing.T) repository.Repository

// Run exercises repo implementations produced by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newRepo(t)) })
	t.Run("tokens", func(t *testing.T) { testTokens(t, newRepo(t)) })
	t.Run("books", func(t *testing.T) { testBooks(t, newRepo(t)) })
	t.Run("book listing", func(t *testing.T) { testBookListing(t, newRepo(t)) })
	t.Run("reviews", func(t *testing.T) { testReviews(t, newRepo(t)) })
	t.Run("cascade delete", func(t *testing.T) { testCascadeDelete(t, newRepo(t)) })
}

func addUser(t *testing.T, repo repository.Repository, name, email string) *data.User {
	t.Helper()
	user := &data.User{Name: name, Email: email}
	user.Password.Hash = []byte("not-a-real-hash")
	require.NoError(t, repo.RegisterUser(context.Background(), user))
	return user
}

func addBook(t *testing.T, repo repository.Repository, owner *data.User, title, author, genre string, year int32) *data.Book {
	t.Helper()
	book := &data.Book{
		Title:       title,
		Author:      author,
		Description: "A description long enough.",
		Genre:       genre,
		Year:        year,
		AddedBy:     owner.Ref(),
	}
	require.NoError(t, repo.CreateBook(context.Background(), book))
	return book
}

func addReview(t *testing.T, repo repository.Repository, book *data.Book, user *data.User, rating int) *data.Review {
	t.Helper()
	review := &data.Review{BookID: book.ID, User: user.Ref(), Rating: rating, ReviewText: "Worth reading twice."}
	require.NoError(t, repo.CreateReview(context.Background(), review))
	return review
}

func bookFilters(sort string, page, size int) data.Filters {
	return data.Filters{Page: page, PageSize: size, Sort: sort, SortSafeList: data.BookSortSafeList}
}

func reviewFilters(page, size int) data.Filters {
	return data.Filters{Page: page, PageSize: size, Sort: "-created_at", SortSafeList: data.ReviewSortSafeList}
}

func titles(books []*data.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func testUsers(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	alice := addUser(t, repo, "Alice", "alice@example.com")
	assert.NotZero(t, alice.ID)

	dup := &data.User{Name: "Other", Email: "alice@example.com"}
	dup.Password.Hash = []byte("hash")
	assert.ErrorIs(t, repo.RegisterUser(ctx, dup), repository.ErrDuplicateRecord)

	got, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "Alice", got.Name)

	got, err = repo.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = repo.GetUserByID(ctx, alice.ID+100)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func testTokens(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	alice := addUser(t, repo, "Alice", "alice@example.com")

	token, err := repo.CreateNewToken(ctx, alice.ID, time.Hour, data.ScopeAuthentication)
	require.NoError(t, err)
	assert.Len(t, token.Plaintext, 26)

	user, err := repo.GetUserForToken(ctx, data.ScopeAuthentication, token.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = repo.GetUserForToken(ctx, "other-scope", token.Plaintext)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)

	expired, err := repo.CreateNewToken(ctx, alice.ID, -time.Hour, data.ScopeAuthentication)
	require.NoError(t, err)
	_, err = repo.GetUserForToken(ctx, data.ScopeAuthentication, expired.Plaintext)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)

	require.NoError(t, repo.DeleteAllTokensForUser(ctx, data.ScopeAuthentication, alice.ID))
	_, err = repo.GetUserForToken(ctx, data.ScopeAuthentication, token.Plaintext)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func testBooks(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	alice := addUser(t, repo, "Alice", "alice@example.com")
	book := addBook(t, repo, alice, "Dune", "Frank Herbert", "Science Fiction", 1965)
	assert.NotZero(t, book.ID)
	assert.False(t, book.CreatedAt.IsZero())

	got, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, data.UserRef{ID: alice.ID, Name: "Alice"}, got.AddedBy)

	_, err = repo.GetBook(ctx, book.ID+100)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)

	orphan := &data.Book{Title: "Orphan", Author: "Nobody", Description: "No owner at all.", Genre: "Other", Year: 2000, AddedBy: data.UserRef{ID: alice.ID + 100}}
	assert.ErrorIs(t, repo.CreateBook(ctx, orphan), repository.ErrRecordNotFound)

	got.Title = "Dune Messiah"
	require.NoError(t, repo.UpdateBook(ctx, got))
	stale := *got
	stale.Version--
	assert.ErrorIs(t, repo.UpdateBook(ctx, &stale), repository.ErrEditConflict)

	got, err = repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)

	require.NoError(t, repo.DeleteBook(ctx, book.ID))
	assert.ErrorIs(t, repo.DeleteBook(ctx, book.ID), repository.ErrRecordNotFound)
}

func testBookListing(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	alice := addUser(t, repo, "Alice", "alice@example.com")
	bob := addUser(t, repo, "Bob", "bob@example.com")
	dune := addBook(t, repo, alice, "Dune", "Frank Herbert", "Science Fiction", 1965)
	hobbit := addBook(t, repo, alice, "The Hobbit", "J.R.R. Tolkien", "Fantasy", 1937)
	addBook(t, repo, bob, "Gone Girl", "Gillian Flynn", "Mystery", 2012)
	addBook(t, repo, bob, "100% Effort", "Dune Fan", "Self-Help", 2020)

	list := func(q data.BookQuery) ([]*data.Book, data.Metadata) {
		t.Helper()
		books, metadata, err := repo.GetAllBooks(ctx, q)
		require.NoError(t, err)
		return books, metadata
	}

	books, metadata := list(data.BookQuery{Filters: bookFilters("-created_at", 1, 10)})
	assert.Equal(t, []string{"100% Effort", "Gone Girl", "The Hobbit", "Dune"}, titles(books))
	assert.Equal(t, data.Metadata{CurrentPage: 1, TotalPages: 1, TotalItems: 4, PageSize: 10}, metadata)

	books, _ = list(data.BookQuery{Search: "dUNe", Filters: bookFilters("year", 1, 10)})
	assert.Equal(t, []string{"Dune", "100% Effort"}, titles(books))

	books, _ = list(data.BookQuery{Search: "tolkien", Filters: bookFilters("year", 1, 10)})
	assert.Equal(t, []string{"The Hobbit"}, titles(books))

	books, _ = list(data.BookQuery{Search: "%", Filters: bookFilters("year", 1, 10)})
	assert.Equal(t, []string{"100% Effort"}, titles(books))

	books, _ = list(data.BookQuery{Genre: "Fantasy", Filters: bookFilters("year", 1, 10)})
	assert.Equal(t, []string{"The Hobbit"}, titles(books))

	books, _ = list(data.BookQuery{Genre: "Poetry", Filters: bookFilters("year", 1, 10)})
	assert.Empty(t, books)

	books, _ = list(data.BookQuery{AddedBy: bob.ID, Filters: bookFilters("-year", 1, 10)})
	assert.Equal(t, []string{"100% Effort", "Gone Girl"}, titles(books))

	books, metadata = list(data.BookQuery{Filters: bookFilters("year", 2, 3)})
	assert.Equal(t, []string{"100% Effort"}, titles(books))
	assert.Equal(t, data.Metadata{CurrentPage: 2, TotalPages: 2, TotalItems: 4, PageSize: 3, HasPrev: true}, metadata)

	books, metadata = list(data.BookQuery{Filters: bookFilters("year", 5, 3)})
	assert.Empty(t, books)
	assert.Equal(t, 4, metadata.TotalItems)

	addReview(t, repo, dune, alice, 5)
	addReview(t, repo, dune, bob, 4)
	addReview(t, repo, hobbit, bob, 3)
	books, _ = list(data.BookQuery{Filters: bookFilters("-rating", 1, 2)})
	assert.Equal(t, []string{"Dune", "The Hobbit"}, titles(books))

	ratings, err := repo.GetRatingsForBooks(ctx, []int64{dune.ID, hobbit.ID, dune.ID + 1000})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{5, 4}, ratings[dune.ID])
	assert.Equal(t, []int{3}, ratings[hobbit.ID])
	assert.NotContains(t, ratings, dune.ID+1000)
}

func testReviews(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	alice := addUser(t, repo, "Alice", "alice@example.com")
	bob := addUser(t, repo, "Bob", "bob@example.com")
	dune := addBook(t, repo, alice, "Dune", "Frank Herbert", "Science Fiction", 1965)
	hobbit := addBook(t, repo, alice, "The Hobbit", "J.R.R. Tolkien", "Fantasy", 1937)

	exists, err := repo.ReviewExistsForUser(ctx, dune.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	first := addReview(t, repo, dune, bob, 5)
	exists, err = repo.ReviewExistsForUser(ctx, dune.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	again := &data.Review{BookID: dune.ID, User: bob.Ref(), Rating: 1, ReviewText: "Changed my mind."}
	assert.ErrorIs(t, repo.CreateReview(ctx, again), repository.ErrDuplicateRecord)

	missing := &data.Review{BookID: hobbit.ID + 100, User: bob.Ref(), Rating: 1, ReviewText: "No such book here."}
	assert.ErrorIs(t, repo.CreateReview(ctx, missing), repository.ErrRecordNotFound)

	second := addReview(t, repo, dune, alice, 3)
	addReview(t, repo, hobbit, bob, 4)

	got, err := repo.GetReview(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, data.UserRef{ID: bob.ID, Name: "Bob"}, got.User)
	require.NotNil(t, got.Book)
	assert.Equal(t, "Dune", got.Book.Title)

	reviews, err := repo.GetReviewsForBook(ctx, dune.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ID, reviews[0].ID)
	assert.Equal(t, first.ID, reviews[1].ID)

	page, metadata, err := repo.GetAllReviewsForBook(ctx, dune.ID, reviewFilters(1, 1))
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)
	assert.Equal(t, data.Metadata{CurrentPage: 1, TotalPages: 2, TotalItems: 2, PageSize: 1, HasNext: true}, metadata)

	page, metadata, err = repo.GetAllReviewsForBook(ctx, dune.ID, reviewFilters(3, 1))
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, 2, metadata.TotalItems)

	byBob, metadata, err := repo.GetAllReviewsForUser(ctx, bob.ID, reviewFilters(1, 10))
	require.NoError(t, err)
	require.Len(t, byBob, 2)
	assert.Equal(t, 2, metadata.TotalItems)
	assert.Equal(t, "The Hobbit", byBob[0].Book.Title)
	assert.Equal(t, "J.R.R. Tolkien", byBob[0].Book.Author)

	got.Rating = 2
	got.ReviewText = "Slower on a re-read."
	require.NoError(t, repo.UpdateReview(ctx, got))
	stale := *got
	stale.Version--
	assert.ErrorIs(t, repo.UpdateReview(ctx, &stale), repository.ErrEditConflict)

	ratings, err := repo.GetRatingsForBook(ctx, dune.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2, 3}, ratings)

	require.NoError(t, repo.DeleteReview(ctx, first.ID))
	assert.ErrorIs(t, repo.DeleteReview(ctx, first.ID), repository.ErrRecordNotFound)
	_, err = repo.GetReview(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func testCascadeDelete(t *testing.T, repo repository.Repository) {
	ctx := context.Background()
	alice := addUser(t, repo, "Alice", "alice@example.com")
	bob := addUser(t, repo, "Bob", "bob@example.com")
	dune := addBook(t, repo, alice, "Dune", "Frank Herbert", "Science Fiction", 1965)
	hobbit := addBook(t, repo, alice, "The Hobbit", "J.R.R. Tolkien", "Fantasy", 1937)
	r1 := addReview(t, repo, dune, alice, 5)
	r2 := addReview(t, repo, dune, bob, 4)
	kept := addReview(t, repo, hobbit, bob, 3)

	require.NoError(t, repo.DeleteBook(ctx, dune.ID))

	for _, id := range []int64{r1.ID, r2.ID} {
		_, err := repo.GetReview(ctx, id)
		assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	}
	_, err := repo.GetReview(ctx, kept.ID)
	assert.NoError(t, err)

	byBob, _, err := repo.GetAllReviewsForUser(ctx, bob.ID, reviewFilters(1, 10))
	require.NoError(t, err)
	require.Len(t, byBob, 1)
	assert.Equal(t, kept.ID, byBob[0].ID)
}
