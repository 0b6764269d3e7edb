package data

import (
	"time"

	"github.com/emzola/bookreviews/internal/validator"
)

// ReviewSortSafeList holds the sort values accepted when listing reviews.
var ReviewSortSafeList = []string{"-created_at"}

// BookRef identifies the book a review was written for.
type BookRef struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Review defines a user's rating and review of a book.
type Review struct {
	ID         int64     `json:"id"`
	BookID     int64     `json:"bookId"`
	Book       *BookRef  `json:"book,omitempty"`
	User       UserRef   `json:"user"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"reviewText"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Version    int32     `json:"-"`
}

// IsWrittenBy reports whether the review was written by the given user.
func (r *Review) IsWrittenBy(userID int64) bool {
	return r.User.ID == userID
}

func ValidateReview(v *validator.Validator, review *Review) {
	v.Check(review.Rating != 0, "rating", "must be provided")
	v.Check(review.Rating >= MinRating && review.Rating <= MaxRating, "rating", "must be between 1 and 5")
	v.Check(review.ReviewText != "", "reviewText", "must be provided")
	v.Check(validator.MinChars(review.ReviewText, 10), "reviewText", "must be at least 10 characters long")
	v.Check(validator.MaxChars(review.ReviewText, 1000), "reviewText", "must not be more than 1000 characters long")
}
