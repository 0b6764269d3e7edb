package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/emzola/bookreviews/data/dto"
	"github.com/emzola/bookreviews/internal/validator"
	"github.com/emzola/bookreviews/service"
)

// ListBooks godoc
// @Summary List books
// @Description This endpoint lists books with their rating summary. Books can be searched by title or author, filtered by genre or creator, sorted and paginated
// @Tags books
// @Produce json
// @Param search query string false "Case-insensitive title or author substring"
// @Param genre query string false "Genre, or All"
// @Param addedBy query int false "ID of the user who added the books"
// @Param sortBy query string false "newest, year or rating"
// @Param sortOrder query string false "asc or desc"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} data.Book
// @Failure 422
// @Failure 500
// @Router /api/books [get]
func (h *Handler) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListBooks
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Search = h.readString(qs, "search", "")
	qsInput.Genre = h.readString(qs, "genre", "")
	qsInput.SortBy = h.readString(qs, "sortBy", "")
	qsInput.SortOrder = h.readString(qs, "sortOrder", "")
	qsInput.AddedBy = int64(h.readInt(qs, "addedBy", 0, v))
	qsInput.Filters = h.readFilters(qs, 5, v)
	if !v.Valid() {
		h.failedValidationResponse(w, r, &service.ValidationError{Errors: v.Errors})
		return
	}
	books, metadata, err := h.service.ListBooks(r.Context(), qsInput)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"success": true, "books": books, "pagination": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowBook godoc
// @Summary Show a book
// @Description This endpoint shows a book with its rating summary and all of its reviews
// @Tags books
// @Produce json
// @Param id path int true "ID of book"
// @Success 200 {object} data.BookDetail
// @Failure 404
// @Failure 500
// @Router /api/books/{id} [get]
func (h *Handler) showBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "id")
	if err != nil {
		h.recordNotFoundResponse(w, r, "book")
		return
	}
	book, err := h.service.GetBook(r.Context(), bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.recordNotFoundResponse(w, r, "book")
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"success": true, "book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// CreateBook godoc
// @Summary Add a book
// @Description This endpoint adds a book to the catalogue
// @Tags books
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param body body dto.BookRequestBody true "JSON payload required to add a book"
// @Success 201 {object} data.Book
// @Failure 400
// @Failure 401
// @Failure 422
// @Failure 500
// @Router /api/books [post]
func (h *Handler) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.BookRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.decodeErrorResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	book, err := h.service.CreateBook(r.Context(), user, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/books/%d", book.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"success": true, "message": "book created", "book": book}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateBook godoc
// @Summary Update a book
// @Description This endpoint replaces the details of a book. Only the user who added the book may update it
// @Tags books
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param id path int true "ID of book"
// @Param body body dto.BookRequestBody true "JSON payload required to update a book"
// @Success 200 {object} data.Book
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /api/books/{id} [put]
func (h *Handler) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "id")
	if err != nil {
		h.recordNotFoundResponse(w, r, "book")
		return
	}
	var requestBody dto.BookRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.decodeErrorResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	book, err := h.service.UpdateBook(r.Context(), user, bookID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.recordNotFoundResponse(w, r, "book")
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"success": true, "message": "book updated", "book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateBookCover godoc
// @Summary Upload a book cover
// @Description This endpoint uploads a JPEG, PNG or WebP cover of at most 2MB for a book. Only the user who added the book may change it
// @Tags books
// @Accept  mpfd
// @Produce json
// @Param token header string true "Bearer token"
// @Param id path int true "ID of book"
// @Param cover formData file true "Cover image"
// @Success 200 {object} data.Book
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 404
// @Failure 413
// @Failure 415
// @Failure 422
// @Failure 500
// @Failure 503
// @Router /api/books/{id}/cover [put]
func (h *Handler) updateBookCoverHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "id")
	if err != nil {
		h.recordNotFoundResponse(w, r, "book")
		return
	}
	// Leave room for the multipart framing around the file.
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxCoverSize+1<<16)
	file, _, err := r.FormFile("cover")
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			h.contentTooLargeResponse(w, r)
		default:
			h.badRequestResponse(w, r, errors.New("cover must be sent as a multipart form file"))
		}
		return
	}
	defer file.Close()
	cover, err := io.ReadAll(io.LimitReader(file, service.MaxCoverSize+1))
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	book, err := h.service.UpdateBookCover(r.Context(), user, bookID, cover)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.recordNotFoundResponse(w, r, "book")
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrUploadsDisabled):
			h.uploadsDisabledResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrUnsupportedMediaType):
			h.unsupportedMediaTypeResponse(w, r)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"success": true, "message": "book cover updated", "book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteBook godoc
// @Summary Delete a book
// @Description This endpoint deletes a book together with all of its reviews. Only the user who added the book may delete it
// @Tags books
// @Produce json
// @Param token header string true "Bearer token"
// @Param id path int true "ID of book"
// @Success 200
// @Failure 401
// @Failure 403
// @Failure 404
// @Failure 500
// @Router /api/books/{id} [delete]
func (h *Handler) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "id")
	if err != nil {
		h.recordNotFoundResponse(w, r, "book")
		return
	}
	user := h.contextGetUser(r)
	err = h.service.DeleteBook(r.Context(), user, bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.recordNotFoundResponse(w, r, "book")
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"success": true, "message": "book deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowRatingDistribution godoc
// @Summary Show a book's rating distribution
// @Description This endpoint returns the number of reviews of a book for each star value from 1 to 5
// @Tags books
// @Produce json
// @Param id path int true "ID of book"
// @Success 200 {object} data.RatingDistribution
// @Failure 404
// @Failure 500
// @Router /api/books/{id}/ratings [get]
func (h *Handler) showRatingDistributionHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "id")
	if err != nil {
		h.recordNotFoundResponse(w, r, "book")
		return
	}
	distribution, err := h.service.GetRatingDistribution(r.Context(), bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.recordNotFoundResponse(w, r, "book")
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"success": true, "distribution": distribution}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
