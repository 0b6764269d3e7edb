package data

import (
	"strings"
	"time"

	"github.com/emzola/bookreviews/internal/validator"
)

// GenreAll is the listing filter value that matches every genre.
const GenreAll = "All"

// Genres lists the genres a book may be catalogued under.
var Genres = []string{
	"Fiction",
	"Non-Fiction",
	"Mystery",
	"Romance",
	"Science Fiction",
	"Fantasy",
	"Biography",
	"History",
	"Self-Help",
	"Business",
	"Technology",
	"Other",
}

// BookSortSafeList holds the sort values accepted when listing books.
var BookSortSafeList = []string{"created_at", "year", "rating", "-created_at", "-year", "-rating"}

// UserRef identifies the user who created a book or wrote a review.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Book defines a catalogued book. The embedded RatingSummary is derived from
// the book's reviews every time the book is read and is never stored.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Genre       string    `json:"genre"`
	Year        int32     `json:"year"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	AddedBy     UserRef   `json:"addedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	RatingSummary
	Version int32 `json:"-"`
}

// BookDetail is a book together with all of its reviews, newest first.
type BookDetail struct {
	*Book
	Reviews []*Review `json:"reviews"`
}

// IsOwnedBy reports whether the book was created by the given user.
func (b *Book) IsOwnedBy(userID int64) bool {
	return b.AddedBy.ID == userID
}

// BookQuery defines the search, filter and paging options for listing books.
type BookQuery struct {
	Search  string
	Genre   string
	AddedBy int64
	Filters Filters
}

// BookSort converts the sortBy and sortOrder query values into a sort value
// from BookSortSafeList. Anything other than year or rating sorts newest first.
func BookSort(sortBy, sortOrder string) string {
	switch sortBy {
	case "year", "rating":
		if sortOrder == "desc" {
			return "-" + sortBy
		}
		return sortBy
	default:
		return "-created_at"
	}
}

// TrimBook strips surrounding whitespace from the book's text fields.
func TrimBook(book *Book) {
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	book.Description = strings.TrimSpace(book.Description)
	book.Genre = strings.TrimSpace(book.Genre)
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(validator.MaxChars(book.Title, 200), "title", "must not be more than 200 characters long")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(validator.MaxChars(book.Author, 100), "author", "must not be more than 100 characters long")
	v.Check(book.Description != "", "description", "must be provided")
	v.Check(validator.MinChars(book.Description, 10), "description", "must be at least 10 characters long")
	v.Check(validator.MaxChars(book.Description, 2000), "description", "must not be more than 2000 characters long")
	v.Check(book.Genre != "", "genre", "must be provided")
	v.Check(validator.In(book.Genre, Genres...), "genre", "must be a valid genre")
	v.Check(book.Year != 0, "year", "must be provided")
	v.Check(book.Year >= 1000, "year", "must be 1000 or later")
	v.Check(book.Year <= int32(time.Now().Year()), "year", "must not be in the future")
}

// ValidateBookQuery checks the listing options, including the raw sortBy and
// sortOrder values the sort was derived from.
func ValidateBookQuery(v *validator.Validator, query BookQuery, sortBy, sortOrder string) {
	v.Check(validator.In(sortBy, "", "newest", "year", "rating"), "sortBy", "must be one of newest, year or rating")
	v.Check(validator.In(sortOrder, "", "asc", "desc"), "sortOrder", "must be asc or desc")
	v.Check(validator.MaxChars(query.Search, 200), "search", "must not be more than 200 characters long")
	v.Check(query.AddedBy >= 0, "addedBy", "must not be negative")
	ValidateFilters(v, query.Filters)
}
