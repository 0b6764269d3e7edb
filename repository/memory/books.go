package memory

import (
	"cmp"
	"context"
	"sort"
	"strings"

	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/repository"
)

// CreateBook creates a book record.
func (s *Store) CreateBook(ctx context.Context, book *data.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[book.AddedBy.ID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	book.ID = s.nextBookID
	s.nextBookID++
	book.AddedBy.Name = user.Name
	book.CreatedAt = now()
	book.UpdatedAt = book.CreatedAt
	book.Version = 1
	stored := *book
	stored.RatingSummary = data.RatingSummary{}
	s.books[book.ID] = &stored
	return nil
}

// GetBook retrieves a book record.
func (s *Store) GetBook(ctx context.Context, bookID int64) (*data.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	book, ok := s.books[bookID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	clone := *book
	return &clone, nil
}

// GetAllBooks retrieves a paginated list of book records.
func (s *Store) GetAllBooks(ctx context.Context, q data.BookQuery) ([]*data.Book, data.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(q.Search)
	matched := []*data.Book{}
	for _, book := range s.books {
		if search != "" &&
			!strings.Contains(strings.ToLower(book.Title), search) &&
			!strings.Contains(strings.ToLower(book.Author), search) {
			continue
		}
		if q.Genre != "" && book.Genre != q.Genre {
			continue
		}
		if q.AddedBy != 0 && book.AddedBy.ID != q.AddedBy {
			continue
		}
		matched = append(matched, book)
	}
	var averages map[int64]float64
	column := q.Filters.SortColumn()
	if column == "rating" {
		averages = s.averageRatings()
	}
	desc := q.Filters.SortDirection() == "DESC"
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var c int
		switch column {
		case "year":
			c = cmp.Compare(a.Year, b.Year)
		case "rating":
			c = cmp.Compare(averages[a.ID], averages[b.ID])
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	start, end := q.Filters.PageBounds(len(matched))
	books := make([]*data.Book, 0, end-start)
	for _, book := range matched[start:end] {
		clone := *book
		books = append(books, &clone)
	}
	metadata := data.CalculateMetadata(len(matched), q.Filters.Page, q.Filters.PageSize)
	return books, metadata, nil
}

// UpdateBook updates a book record when its version still matches.
func (s *Store) UpdateBook(ctx context.Context, book *data.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.books[book.ID]
	if !ok || stored.Version != book.Version {
		return repository.ErrEditConflict
	}
	stored.Title = book.Title
	stored.Author = book.Author
	stored.Description = book.Description
	stored.Genre = book.Genre
	stored.Year = book.Year
	stored.CoverURL = book.CoverURL
	stored.UpdatedAt = now()
	stored.Version++
	book.UpdatedAt = stored.UpdatedAt
	book.Version = stored.Version
	return nil
}

// DeleteBook deletes a book and its reviews under a single lock.
func (s *Store) DeleteBook(ctx context.Context, bookID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[bookID]; !ok {
		return repository.ErrRecordNotFound
	}
	for id, review := range s.reviews {
		if review.BookID == bookID {
			delete(s.reviews, id)
		}
	}
	delete(s.books, bookID)
	return nil
}

// averageRatings must be called with the lock held.
func (s *Store) averageRatings() map[int64]float64 {
	ratings := make(map[int64][]int)
	for _, review := range s.reviews {
		ratings[review.BookID] = append(ratings[review.BookID], review.Rating)
	}
	averages := make(map[int64]float64, len(ratings))
	for bookID, r := range ratings {
		averages[bookID] = data.SummarizeRatings(r).AverageRating
	}
	return averages
}
