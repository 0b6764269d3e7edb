package service

import (
	"context"

	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/data/dto"
	"github.com/emzola/bookreviews/internal/validator"
	"github.com/gabriel-vasile/mimetype"
)

// MaxCoverSize is the largest accepted book cover in bytes.
const MaxCoverSize = 2 << 20

// CoverMediaTypes are the accepted book cover formats.
var CoverMediaTypes = []string{"image/jpeg", "image/png", "image/webp"}

type books interface {
	ListBooks(ctx context.Context, qs dto.QsListBooks) ([]*data.Book, data.Metadata, error)
	GetBook(ctx context.Context, bookID int64) (*data.BookDetail, error)
	CreateBook(ctx context.Context, user *data.User, input dto.BookRequestBody) (*data.Book, error)
	UpdateBook(ctx context.Context, user *data.User, bookID int64, input dto.BookRequestBody) (*data.Book, error)
	UpdateBookCover(ctx context.Context, user *data.User, bookID int64, cover []byte) (*data.Book, error)
	DeleteBook(ctx context.Context, user *data.User, bookID int64) error
	GetRatingDistribution(ctx context.Context, bookID int64) (data.RatingDistribution, error)
}

// ListBooks service returns a page of books, each carrying its rating summary.
func (s *service) ListBooks(ctx context.Context, qs dto.QsListBooks) ([]*data.Book, data.Metadata, error) {
	query := data.BookQuery{
		Search:  qs.Search,
		Genre:   qs.Genre,
		AddedBy: qs.AddedBy,
		Filters: qs.Filters,
	}
	if query.Genre == data.GenreAll {
		query.Genre = ""
	}
	query.Filters.Sort = data.BookSort(qs.SortBy, qs.SortOrder)
	query.Filters.SortSafeList = data.BookSortSafeList
	v := validator.New()
	if data.ValidateBookQuery(v, query, qs.SortBy, qs.SortOrder); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	books, metadata, err := s.repo.GetAllBooks(ctx, query)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	err = s.summarizeRatings(ctx, books)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return books, metadata, nil
}

// GetBook service returns a book with its rating summary and all of its reviews.
func (s *service) GetBook(ctx context.Context, bookID int64) (*data.BookDetail, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return nil, translate(err)
	}
	reviews, err := s.repo.GetReviewsForBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	ratings := make([]int, 0, len(reviews))
	for _, review := range reviews {
		ratings = append(ratings, review.Rating)
	}
	book.RatingSummary = data.SummarizeRatings(ratings)
	return &data.BookDetail{Book: book, Reviews: reviews}, nil
}

// CreateBook service adds a book to the catalogue with user as its creator.
func (s *service) CreateBook(ctx context.Context, user *data.User, input dto.BookRequestBody) (*data.Book, error) {
	book := &data.Book{
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		Genre:       input.Genre,
		Year:        input.Year,
		AddedBy:     user.Ref(),
	}
	data.TrimBook(book)
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err := s.repo.CreateBook(ctx, book)
	if err != nil {
		return nil, translate(err)
	}
	s.logger.PrintDebug("book created", map[string]string{
		"book_id": itoa(book.ID),
		"user_id": itoa(user.ID),
	})
	return book, nil
}

// UpdateBook service replaces a book's fields. Only the creator may update it.
func (s *service) UpdateBook(ctx context.Context, user *data.User, bookID int64, input dto.BookRequestBody) (*data.Book, error) {
	book, err := s.ownedBook(ctx, user, bookID)
	if err != nil {
		return nil, err
	}
	book.Title = input.Title
	book.Author = input.Author
	book.Description = input.Description
	book.Genre = input.Genre
	book.Year = input.Year
	data.TrimBook(book)
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateBook(ctx, book)
	if err != nil {
		return nil, translate(err)
	}
	return s.withRatingSummary(ctx, book)
}

// UpdateBookCover service uploads a new cover image for a book. Only the
// creator may change it.
func (s *service) UpdateBookCover(ctx context.Context, user *data.User, bookID int64, cover []byte) (*data.Book, error) {
	book, err := s.ownedBook(ctx, user, bookID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	v := validator.New()
	v.Check(len(cover) > 0, "cover", "must be provided")
	v.Check(len(cover) <= MaxCoverSize, "cover", "must not be larger than 2MB")
	if !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	mtype := mimetype.Detect(cover)
	if !validator.Mime(mtype, CoverMediaTypes...) {
		return nil, ErrUnsupportedMediaType
	}
	key, err := coverKey(mtype.Extension())
	if err != nil {
		return nil, err
	}
	url, err := s.uploader.Upload(ctx, key, cover, mtype.String())
	if err != nil {
		return nil, err
	}
	book.CoverURL = url
	err = s.repo.UpdateBook(ctx, book)
	if err != nil {
		return nil, translate(err)
	}
	return s.withRatingSummary(ctx, book)
}

// DeleteBook service deletes a book together with all of its reviews. Only
// the creator may delete it.
func (s *service) DeleteBook(ctx context.Context, user *data.User, bookID int64) error {
	_, err := s.ownedBook(ctx, user, bookID)
	if err != nil {
		return err
	}
	err = s.repo.DeleteBook(ctx, bookID)
	if err != nil {
		return translate(err)
	}
	return nil
}

// GetRatingDistribution service returns the number of reviews per star value of a book.
func (s *service) GetRatingDistribution(ctx context.Context, bookID int64) (data.RatingDistribution, error) {
	_, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return nil, translate(err)
	}
	ratings, err := s.repo.GetRatingsForBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return data.DistributeRatings(ratings), nil
}

// ownedBook fetches a book and checks that user created it. A missing book
// is reported before a permission failure.
func (s *service) ownedBook(ctx context.Context, user *data.User, bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return nil, translate(err)
	}
	if !book.IsOwnedBy(user.ID) {
		return nil, ErrNotPermitted
	}
	return book, nil
}

func (s *service) withRatingSummary(ctx context.Context, book *data.Book) (*data.Book, error) {
	ratings, err := s.repo.GetRatingsForBook(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	book.RatingSummary = data.SummarizeRatings(ratings)
	return book, nil
}

// summarizeRatings fills in the rating summary of every book with a single
// ratings lookup.
func (s *service) summarizeRatings(ctx context.Context, books []*data.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(books))
	for _, book := range books {
		ids = append(ids, book.ID)
	}
	ratings, err := s.repo.GetRatingsForBooks(ctx, ids)
	if err != nil {
		return err
	}
	for _, book := range books {
		book.RatingSummary = data.SummarizeRatings(ratings[book.ID])
	}
	return nil
}
