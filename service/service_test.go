package service

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/emzola/bookreviews/config"
	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/data/dto"
	"github.com/emzola/bookreviews/internal/jsonlog"
	"github.com/emzola/bookreviews/internal/mailer"
	"github.com/emzola/bookreviews/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	data.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type sentMail struct {
	recipient string
	template  string
	data      map[string]any
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{recipient, templateFile, data.(map[string]any)})
	return nil
}

func (m *fakeMailer) byTemplate(name string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMail
	for _, s := range m.sent {
		if s.template == name {
			out = append(out, s)
		}
	}
	return out
}

type fakeUploader struct {
	keys []string
}

func (u *fakeUploader) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	u.keys = append(u.keys, key)
	return "https://covers.example.com/" + key, nil
}

func newTestService(t *testing.T, opts ...Option) (*service, *sync.WaitGroup) {
	t.Helper()
	var wg sync.WaitGroup
	cfg := config.Default()
	cfg.Database.Driver = "memory"
	s := New(cfg, &wg, jsonlog.New(io.Discard, jsonlog.LevelInfo), memory.New(), opts...)
	return s, &wg
}

func register(t *testing.T, s *service, name string) *data.User {
	t.Helper()
	email := strings.ToLower(strings.Fields(name)[0]) + "@example.com"
	user, _, err := s.RegisterUser(context.Background(), name, email, "pa55word")
	require.NoError(t, err)
	return user
}

func bookInput(title, author, genre string, year int32) dto.BookRequestBody {
	return dto.BookRequestBody{
		Title:       title,
		Author:      author,
		Description: "A story worth telling at length.",
		Genre:       genre,
		Year:        year,
	}
}

func reviewInput(bookID int64, rating int) dto.CreateReviewRequestBody {
	return dto.CreateReviewRequestBody{BookID: bookID, Rating: rating, ReviewText: "I would read this one again."}
}

func validationErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var v *ValidationError
	require.True(t, errors.As(err, &v), "expected a validation error, got %v", err)
	assert.ErrorIs(t, err, ErrFailedValidation)
	return v.Errors
}

func TestRegisterUser(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	user, token, err := s.RegisterUser(ctx, "  Alice Reader ", "Alice@Example.com", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, "Alice Reader", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Len(t, token.Plaintext, 26)

	_, _, err = s.RegisterUser(ctx, "Alice Again", "alice@example.com", "pa55word")
	assert.Contains(t, validationErrors(t, err), "email")

	_, _, err = s.RegisterUser(ctx, "", "not-an-email", "short")
	errs := validationErrors(t, err)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	_, _, err = s.RegisterUser(ctx, "Bob Reader", "bob@example.com", strings.Repeat("x", 73))
	assert.Equal(t, map[string]string{"password": "must not be more than 72 bytes long"}, validationErrors(t, err))
}

func TestAuthenticationTokens(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "Alice Reader")

	_, token, err := s.CreateAuthenticationToken(ctx, "ALICE@example.com", "pa55word")
	require.NoError(t, err)

	user, err := s.GetUserForToken(ctx, data.ScopeAuthentication, token.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, _, err = s.CreateAuthenticationToken(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.CreateAuthenticationToken(ctx, "nobody@example.com", "pa55word")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, s.DeleteAuthenticationTokens(ctx, alice.ID))
	_, err = s.GetUserForToken(ctx, data.ScopeAuthentication, token.Plaintext)
	assert.ErrorIs(t, err, ErrFailedValidation)

	_, err = s.GetUserForToken(ctx, data.ScopeAuthentication, "too-short")
	assert.ErrorIs(t, err, ErrFailedValidation)
}

func TestDuneScenario(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "Alice Reader")
	bob := register(t, s, "Bob Critic")
	carol := register(t, s, "Carol Fan")

	dune, err := s.CreateBook(ctx, alice, bookInput("Dune", "Frank Herbert", "Science Fiction", 1965))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, dune.AddedBy.ID)
	assert.Zero(t, dune.ReviewCount)

	first, err := s.CreateReview(ctx, bob, reviewInput(dune.ID, 5))
	require.NoError(t, err)
	assert.Equal(t, "Dune", first.Book.Title)
	assert.Equal(t, "Bob Critic", first.User.Name)
	_, err = s.CreateReview(ctx, carol, reviewInput(dune.ID, 4))
	require.NoError(t, err)

	detail, err := s.GetBook(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, detail.AverageRating)
	assert.Equal(t, 2, detail.ReviewCount)
	require.Len(t, detail.Reviews, 2)
	assert.Equal(t, carol.ID, detail.Reviews[0].User.ID)

	_, err = s.CreateReview(ctx, bob, reviewInput(dune.ID, 1))
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	dist, err := s.GetRatingDistribution(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, data.RatingDistribution{1: 0, 2: 0, 3: 0, 4: 1, 5: 1}, dist)

	_, err = s.UpdateBook(ctx, bob, dune.ID, bookInput("Dune Messiah", "Frank Herbert", "Science Fiction", 1969))
	assert.ErrorIs(t, err, ErrNotPermitted)

	err = s.DeleteBook(ctx, bob, dune.ID)
	assert.ErrorIs(t, err, ErrNotPermitted)

	require.NoError(t, s.DeleteBook(ctx, alice, dune.ID))
	_, err = s.GetBook(ctx, dune.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	reviews, metadata, err := s.ListReviewsForUser(ctx, bob.ID, data.Filters{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Zero(t, metadata.TotalItems)
}

func TestUpdateBook(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "Alice Reader")
	bob := register(t, s, "Bob Critic")
	book, err := s.CreateBook(ctx, alice, bookInput("Emma", "Jane Austen", "Romance", 1815))
	require.NoError(t, err)
	_, err = s.CreateReview(ctx, bob, reviewInput(book.ID, 3))
	require.NoError(t, err)

	updated, err := s.UpdateBook(ctx, alice, book.ID, bookInput("  Emma ", "Jane Austen", "Fiction", 1816))
	require.NoError(t, err)
	assert.Equal(t, "Emma", updated.Title)
	assert.Equal(t, "Fiction", updated.Genre)
	assert.Equal(t, 1, updated.ReviewCount)
	assert.Equal(t, 3.0, updated.AverageRating)

	_, err = s.UpdateBook(ctx, alice, book.ID, bookInput("Emma", "Jane Austen", "Poetry", 999))
	errs := validationErrors(t, err)
	assert.Contains(t, errs, "genre")
	assert.Contains(t, errs, "year")

	// A missing book is reported before ownership.
	_, err = s.UpdateBook(ctx, bob, 999, bookInput("Emma", "Jane Austen", "Fiction", 1816))
	assert.ErrorIs(t, err, ErrRecordNotFound)
	err = s.DeleteBook(ctx, bob, 999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestListBooks(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "Alice Reader")
	bob := register(t, s, "Bob Critic")
	dune, err := s.CreateBook(ctx, alice, bookInput("Dune", "Frank Herbert", "Science Fiction", 1965))
	require.NoError(t, err)
	_, err = s.CreateBook(ctx, alice, bookInput("The Hobbit", "J.R.R. Tolkien", "Fantasy", 1937))
	require.NoError(t, err)
	_, err = s.CreateBook(ctx, bob, bookInput("Neuromancer", "William Gibson", "Science Fiction", 1984))
	require.NoError(t, err)
	_, err = s.CreateReview(ctx, bob, reviewInput(dune.ID, 4))
	require.NoError(t, err)

	list := func(qs dto.QsListBooks) []string {
		t.Helper()
		if qs.Filters.Page == 0 {
			qs.Filters.Page = 1
		}
		if qs.Filters.PageSize == 0 {
			qs.Filters.PageSize = 5
		}
		books, _, err := s.ListBooks(ctx, qs)
		require.NoError(t, err)
		out := []string{}
		for _, b := range books {
			out = append(out, b.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Dune"}, list(dto.QsListBooks{Search: "dUNE"}))
	assert.Equal(t, []string{"Dune"}, list(dto.QsListBooks{Search: "herbert"}))
	assert.Len(t, list(dto.QsListBooks{Genre: data.GenreAll}), 3)
	assert.ElementsMatch(t, []string{"Dune", "Neuromancer"}, list(dto.QsListBooks{Genre: "Science Fiction"}))
	assert.Equal(t, []string{"Neuromancer"}, list(dto.QsListBooks{AddedBy: bob.ID}))
	assert.Equal(t, []string{"The Hobbit", "Dune", "Neuromancer"}, list(dto.QsListBooks{SortBy: "year", SortOrder: "asc"}))
	assert.Equal(t, "Dune", list(dto.QsListBooks{SortBy: "rating", SortOrder: "desc"})[0])

	books, metadata, err := s.ListBooks(ctx, dto.QsListBooks{Filters: data.Filters{Page: 2, PageSize: 2}})
	require.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, 2, metadata.TotalPages)
	assert.Equal(t, 3, metadata.TotalItems)
	assert.False(t, metadata.HasNext)
	assert.True(t, metadata.HasPrev)

	for _, b := range books {
		if b.ID == dune.ID {
			assert.Equal(t, 1, b.ReviewCount)
		}
	}

	_, _, err = s.ListBooks(ctx, dto.QsListBooks{SortBy: "title", Filters: data.Filters{Page: 1, PageSize: 5}})
	assert.Contains(t, validationErrors(t, err), "sortBy")
	_, _, err = s.ListBooks(ctx, dto.QsListBooks{Filters: data.Filters{Page: 0, PageSize: 5}})
	assert.Contains(t, validationErrors(t, err), "page")
}

func TestCreateReviewValidation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "Alice Reader")
	book, err := s.CreateBook(ctx, alice, bookInput("Emma", "Jane Austen", "Romance", 1815))
	require.NoError(t, err)

	_, err = s.CreateReview(ctx, alice, dto.CreateReviewRequestBody{BookID: book.ID, Rating: 6, ReviewText: "short"})
	errs := validationErrors(t, err)
	assert.Contains(t, errs, "rating")
	assert.Contains(t, errs, "reviewText")

	_, err = s.CreateReview(ctx, alice, reviewInput(0, 3))
	assert.Contains(t, validationErrors(t, err), "bookId")

	_, err = s.CreateReview(ctx, alice, reviewInput(book.ID+100, 3))
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpdateAndDeleteReview(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "Alice Reader")
	bob := register(t, s, "Bob Critic")
	book, err := s.CreateBook(ctx, alice, bookInput("Emma", "Jane Austen", "Romance", 1815))
	require.NoError(t, err)
	review, err := s.CreateReview(ctx, bob, reviewInput(book.ID, 2))
	require.NoError(t, err)

	input := dto.UpdateReviewRequestBody{Rating: 4, ReviewText: "Better on a second reading."}
	_, err = s.UpdateReview(ctx, alice, review.ID, input)
	assert.ErrorIs(t, err, ErrNotPermitted)
	_, err = s.UpdateReview(ctx, alice, review.ID+100, input)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	updated, err := s.UpdateReview(ctx, bob, review.ID, input)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	_, err = s.UpdateReview(ctx, bob, review.ID, dto.UpdateReviewRequestBody{Rating: 0, ReviewText: input.ReviewText})
	assert.Contains(t, validationErrors(t, err), "rating")

	assert.ErrorIs(t, s.DeleteReview(ctx, alice, review.ID), ErrNotPermitted)
	require.NoError(t, s.DeleteReview(ctx, bob, review.ID))
	assert.ErrorIs(t, s.DeleteReview(ctx, bob, review.ID), ErrRecordNotFound)

	detail, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Zero(t, detail.ReviewCount)
	assert.Zero(t, detail.AverageRating)
}

func TestListReviewsPagination(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "Alice Reader")
	book, err := s.CreateBook(ctx, alice, bookInput("Emma", "Jane Austen", "Romance", 1815))
	require.NoError(t, err)
	for _, name := range []string{"Bob Critic", "Carol Fan", "Dan Skimmer"} {
		_, err := s.CreateReview(ctx, register(t, s, name), reviewInput(book.ID, 3))
		require.NoError(t, err)
	}

	reviews, metadata, err := s.ListReviewsForBook(ctx, book.ID, data.Filters{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Dan Skimmer", reviews[0].User.Name)
	assert.Equal(t, 2, metadata.TotalPages)
	assert.True(t, metadata.HasNext)

	reviews, _, err = s.ListReviewsForBook(ctx, book.ID, data.Filters{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, reviews)

	_, _, err = s.ListReviewsForBook(ctx, book.ID, data.Filters{Page: 1, PageSize: 101})
	assert.Contains(t, validationErrors(t, err), "limit")
}

func TestUpdateBookCover(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	ctx := context.Background()

	t.Run("uploads disabled", func(t *testing.T) {
		s, _ := newTestService(t)
		alice := register(t, s, "Alice Reader")
		book, err := s.CreateBook(ctx, alice, bookInput("Emma", "Jane Austen", "Romance", 1815))
		require.NoError(t, err)
		_, err = s.UpdateBookCover(ctx, alice, book.ID, png)
		assert.ErrorIs(t, err, ErrUploadsDisabled)
	})

	t.Run("upload", func(t *testing.T) {
		uploader := &fakeUploader{}
		s, _ := newTestService(t, WithUploader(uploader))
		alice := register(t, s, "Alice Reader")
		bob := register(t, s, "Bob Critic")
		book, err := s.CreateBook(ctx, alice, bookInput("Emma", "Jane Austen", "Romance", 1815))
		require.NoError(t, err)

		_, err = s.UpdateBookCover(ctx, bob, book.ID, png)
		assert.ErrorIs(t, err, ErrNotPermitted)

		_, err = s.UpdateBookCover(ctx, alice, book.ID, []byte("plain text is not an image"))
		assert.ErrorIs(t, err, ErrUnsupportedMediaType)

		_, err = s.UpdateBookCover(ctx, alice, book.ID, nil)
		assert.Contains(t, validationErrors(t, err), "cover")

		updated, err := s.UpdateBookCover(ctx, alice, book.ID, png)
		require.NoError(t, err)
		require.Len(t, uploader.keys, 1)
		assert.True(t, strings.HasPrefix(uploader.keys[0], "bookcovers/"))
		assert.True(t, strings.HasSuffix(uploader.keys[0], ".png"))
		assert.Equal(t, "https://covers.example.com/"+uploader.keys[0], updated.CoverURL)

		detail, err := s.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.CoverURL, detail.CoverURL)
	})
}

func TestNotifications(t *testing.T) {
	m := &fakeMailer{}
	s, wg := newTestService(t, WithMailer(m))
	ctx := context.Background()
	alice := register(t, s, "Alice Reader")
	bob := register(t, s, "Bob Critic")
	book, err := s.CreateBook(ctx, alice, bookInput("Emma", "Jane Austen", "Romance", 1815))
	require.NoError(t, err)

	_, err = s.CreateReview(ctx, bob, reviewInput(book.ID, 5))
	require.NoError(t, err)
	_, err = s.CreateReview(ctx, alice, reviewInput(book.ID, 4))
	require.NoError(t, err)
	wg.Wait()

	assert.Len(t, m.byTemplate(mailer.TemplateUserWelcome), 2)
	notices := m.byTemplate(mailer.TemplateReviewCreated)
	require.Len(t, notices, 1)
	assert.Equal(t, alice.Email, notices[0].recipient)
	assert.Equal(t, "Bob Critic", notices[0].data["reviewerName"])
	assert.Equal(t, "Emma", notices[0].data["bookTitle"])
}
