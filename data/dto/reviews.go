package dto

import "github.com/emzola/bookreviews/data"

// CreateReviewRequestBody defines a request body for CreateReview service.
type CreateReviewRequestBody struct {
	BookID     int64  `json:"bookId"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"reviewText"`
}

// UpdateReviewRequestBody defines a request body for UpdateReview service.
type UpdateReviewRequestBody struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"reviewText"`
}

// QsListReviews defines the query strings used for listing reviews.
type QsListReviews struct {
	Filters data.Filters
}
