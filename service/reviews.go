package service

import (
	"context"
	"strings"

	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/data/dto"
	"github.com/emzola/bookreviews/internal/mailer"
	"github.com/emzola/bookreviews/internal/validator"
)

type reviews interface {
	ListReviewsForBook(ctx context.Context, bookID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	ListReviewsForUser(ctx context.Context, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	CreateReview(ctx context.Context, user *data.User, input dto.CreateReviewRequestBody) (*data.Review, error)
	UpdateReview(ctx context.Context, user *data.User, reviewID int64, input dto.UpdateReviewRequestBody) (*data.Review, error)
	DeleteReview(ctx context.Context, user *data.User, reviewID int64) error
}

// ListReviewsForBook service returns a page of a book's reviews, newest first.
func (s *service) ListReviewsForBook(ctx context.Context, bookID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	filters = reviewFilters(filters)
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	return s.repo.GetAllReviewsForBook(ctx, bookID, filters)
}

// ListReviewsForUser service returns a page of the reviews a user wrote,
// newest first. Each review carries its book's title and author.
func (s *service) ListReviewsForUser(ctx context.Context, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	filters = reviewFilters(filters)
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	return s.repo.GetAllReviewsForUser(ctx, userID, filters)
}

// CreateReview service records user's review of a book. A user may review a
// book only once.
func (s *service) CreateReview(ctx context.Context, user *data.User, input dto.CreateReviewRequestBody) (*data.Review, error) {
	review := &data.Review{
		BookID:     input.BookID,
		User:       user.Ref(),
		Rating:     input.Rating,
		ReviewText: strings.TrimSpace(input.ReviewText),
	}
	v := validator.New()
	v.Check(review.BookID > 0, "bookId", "must be provided")
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	book, err := s.repo.GetBook(ctx, review.BookID)
	if err != nil {
		return nil, translate(err)
	}
	exists, err := s.repo.ReviewExistsForUser(ctx, book.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRecord
	}
	err = s.repo.CreateReview(ctx, review)
	if err != nil {
		return nil, translate(err)
	}
	review.Book = &data.BookRef{ID: book.ID, Title: book.Title, Author: book.Author}
	s.notifyBookOwner(book, review)
	return review, nil
}

// UpdateReview service changes the rating and text of a review. Only its
// author may update it.
func (s *service) UpdateReview(ctx context.Context, user *data.User, reviewID int64, input dto.UpdateReviewRequestBody) (*data.Review, error) {
	review, err := s.ownedReview(ctx, user, reviewID)
	if err != nil {
		return nil, err
	}
	review.Rating = input.Rating
	review.ReviewText = strings.TrimSpace(input.ReviewText)
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateReview(ctx, review)
	if err != nil {
		return nil, translate(err)
	}
	return review, nil
}

// DeleteReview service deletes a review. Only its author may delete it.
func (s *service) DeleteReview(ctx context.Context, user *data.User, reviewID int64) error {
	_, err := s.ownedReview(ctx, user, reviewID)
	if err != nil {
		return err
	}
	err = s.repo.DeleteReview(ctx, reviewID)
	if err != nil {
		return translate(err)
	}
	return nil
}

// ownedReview fetches a review and checks that user wrote it. A missing
// review is reported before a permission failure.
func (s *service) ownedReview(ctx context.Context, user *data.User, reviewID int64) (*data.Review, error) {
	review, err := s.repo.GetReview(ctx, reviewID)
	if err != nil {
		return nil, translate(err)
	}
	if !review.IsWrittenBy(user.ID) {
		return nil, ErrNotPermitted
	}
	return review, nil
}

// notifyBookOwner emails the creator of a book about a new review in the
// background. Nothing is sent for self-reviews or when mail is not configured.
func (s *service) notifyBookOwner(book *data.Book, review *data.Review) {
	if s.mailer == nil || book.IsOwnedBy(review.User.ID) {
		return
	}
	s.background(func() {
		owner, err := s.repo.GetUserByID(context.Background(), book.AddedBy.ID)
		if err != nil {
			s.logger.PrintError(err, map[string]string{"book_id": itoa(book.ID)})
			return
		}
		data := map[string]any{
			"ownerName":    strings.Split(owner.Name, " ")[0],
			"reviewerName": review.User.Name,
			"bookTitle":    book.Title,
			"rating":       review.Rating,
			"reviewText":   review.ReviewText,
		}
		err = s.mailer.Send(owner.Email, mailer.TemplateReviewCreated, data)
		if err != nil {
			s.logger.PrintError(err, map[string]string{"book_id": itoa(book.ID)})
		}
	})
}

// reviewFilters pins the sort of review listings to newest first.
func reviewFilters(filters data.Filters) data.Filters {
	filters.Sort = "-created_at"
	filters.SortSafeList = data.ReviewSortSafeList
	return filters
}
