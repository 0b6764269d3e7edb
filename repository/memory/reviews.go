package memory

import (
	"context"
	"sort"

	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/repository"
)

// CreateReview creates a review record. A second review of the same book by
// the same user fails with ErrDuplicateRecord, as the unique index does in
// PostgreSQL.
func (s *Store) CreateReview(ctx context.Context, review *data.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[review.BookID]; !ok {
		return repository.ErrRecordNotFound
	}
	user, ok := s.users[review.User.ID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	for _, existing := range s.reviews {
		if existing.BookID == review.BookID && existing.User.ID == review.User.ID {
			return repository.ErrDuplicateRecord
		}
	}
	review.ID = s.nextReviewID
	s.nextReviewID++
	review.User.Name = user.Name
	review.CreatedAt = now()
	review.UpdatedAt = review.CreatedAt
	review.Version = 1
	stored := *review
	stored.Book = nil
	s.reviews[review.ID] = &stored
	return nil
}

// GetReview retrieves a review record.
func (s *Store) GetReview(ctx context.Context, reviewID int64) (*data.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	review, ok := s.reviews[reviewID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return s.cloneReview(review), nil
}

// UpdateReview updates a review record when its version still matches.
func (s *Store) UpdateReview(ctx context.Context, review *data.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.reviews[review.ID]
	if !ok || stored.Version != review.Version {
		return repository.ErrEditConflict
	}
	stored.Rating = review.Rating
	stored.ReviewText = review.ReviewText
	stored.UpdatedAt = now()
	stored.Version++
	review.UpdatedAt = stored.UpdatedAt
	review.Version = stored.Version
	return nil
}

// DeleteReview deletes a review record.
func (s *Store) DeleteReview(ctx context.Context, reviewID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[reviewID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(s.reviews, reviewID)
	return nil
}

// ReviewExistsForUser checks whether a user has already reviewed a book.
func (s *Store) ReviewExistsForUser(ctx context.Context, bookID, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, review := range s.reviews {
		if review.BookID == bookID && review.User.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

// GetReviewsForBook retrieves every review of a book, newest first.
func (s *Store) GetReviewsForBook(ctx context.Context, bookID int64) ([]*data.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.newestReviews(func(r *data.Review) bool { return r.BookID == bookID })
	reviews := make([]*data.Review, 0, len(matched))
	for _, review := range matched {
		reviews = append(reviews, s.cloneReview(review))
	}
	return reviews, nil
}

// GetAllReviewsForBook retrieves a paginated list of a book's reviews.
func (s *Store) GetAllReviewsForBook(ctx context.Context, bookID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	return s.pageReviews(filters, func(r *data.Review) bool { return r.BookID == bookID })
}

// GetAllReviewsForUser retrieves a paginated list of the reviews a user wrote.
func (s *Store) GetAllReviewsForUser(ctx context.Context, userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	return s.pageReviews(filters, func(r *data.Review) bool { return r.User.ID == userID })
}

// GetRatingsForBook returns the rating of every review of a book.
func (s *Store) GetRatingsForBook(ctx context.Context, bookID int64) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ratings := []int{}
	for _, review := range s.reviews {
		if review.BookID == bookID {
			ratings = append(ratings, review.Rating)
		}
	}
	return ratings, nil
}

// GetRatingsForBooks returns the ratings of several books keyed by book id.
func (s *Store) GetRatingsForBooks(ctx context.Context, bookIDs []int64) (map[int64][]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[int64]bool, len(bookIDs))
	for _, id := range bookIDs {
		wanted[id] = true
	}
	ratings := make(map[int64][]int, len(bookIDs))
	for _, review := range s.reviews {
		if wanted[review.BookID] {
			ratings[review.BookID] = append(ratings[review.BookID], review.Rating)
		}
	}
	return ratings, nil
}

func (s *Store) pageReviews(filters data.Filters, match func(*data.Review) bool) ([]*data.Review, data.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.newestReviews(match)
	start, end := filters.PageBounds(len(matched))
	reviews := make([]*data.Review, 0, end-start)
	for _, review := range matched[start:end] {
		reviews = append(reviews, s.cloneReview(review))
	}
	metadata := data.CalculateMetadata(len(matched), filters.Page, filters.PageSize)
	return reviews, metadata, nil
}

// newestReviews must be called with the lock held.
func (s *Store) newestReviews(match func(*data.Review) bool) []*data.Review {
	matched := []*data.Review{}
	for _, review := range s.reviews {
		if match(review) {
			matched = append(matched, review)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if c := matched[i].CreatedAt.Compare(matched[j].CreatedAt); c != 0 {
			return c > 0
		}
		return matched[i].ID > matched[j].ID
	})
	return matched
}

// cloneReview copies a stored review and attaches its book reference. It
// must be called with the lock held.
func (s *Store) cloneReview(review *data.Review) *data.Review {
	clone := *review
	if book, ok := s.books[review.BookID]; ok {
		clone.Book = &data.BookRef{ID: book.ID, Title: book.Title, Author: book.Author}
	}
	return &clone
}
