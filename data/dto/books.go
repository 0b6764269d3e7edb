package dto

import "github.com/emzola/bookreviews/data"

// QsListBooks defines the query strings used for listing books.
type QsListBooks struct {
	Search    string
	Genre     string
	SortBy    string
	SortOrder string
	AddedBy   int64
	Filters   data.Filters
}

// BookRequestBody defines the request body for the CreateBook and UpdateBook
// services. Updates replace every field, so the same shape serves both.
type BookRequestBody struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Year        int32  `json:"year"`
}
