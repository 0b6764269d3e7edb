package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emzola/bookreviews/data/dto"
	"github.com/emzola/bookreviews/internal/validator"
	"github.com/emzola/bookreviews/service"
)

// readReviewFilters reads the page and limit query strings of a review listing.
func (h *Handler) readReviewFilters(r *http.Request, v *validator.Validator) dto.QsListReviews {
	var qsInput dto.QsListReviews
	qs := r.URL.Query()
	qsInput.Filters = h.readFilters(qs, 10, v)
	return qsInput
}

// ListBookReviews godoc
// @Summary List the reviews of a book
// @Description This endpoint lists the reviews of a book, newest first
// @Tags reviews
// @Produce json
// @Param bookId path int true "ID of book"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} data.Review
// @Failure 404
// @Failure 422
// @Failure 500
// @Router /api/reviews/book/{bookId} [get]
func (h *Handler) listBookReviewsHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.recordNotFoundResponse(w, r, "book")
		return
	}
	v := validator.New()
	qsInput := h.readReviewFilters(r, v)
	if !v.Valid() {
		h.failedValidationResponse(w, r, &service.ValidationError{Errors: v.Errors})
		return
	}
	reviews, metadata, err := h.service.ListReviewsForBook(r.Context(), bookID, qsInput.Filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"success": true, "reviews": reviews, "pagination": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListUserReviews godoc
// @Summary List the reviews of a user
// @Description This endpoint lists the reviews a user wrote, newest first, each with its book's title and author
// @Tags reviews
// @Produce json
// @Param userId path int true "ID of user"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {array} data.Review
// @Failure 404
// @Failure 422
// @Failure 500
// @Router /api/reviews/user/{userId} [get]
func (h *Handler) listUserReviewsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := h.readIDParam(r, "userId")
	if err != nil {
		h.recordNotFoundResponse(w, r, "user")
		return
	}
	v := validator.New()
	qsInput := h.readReviewFilters(r, v)
	if !v.Valid() {
		h.failedValidationResponse(w, r, &service.ValidationError{Errors: v.Errors})
		return
	}
	reviews, metadata, err := h.service.ListReviewsForUser(r.Context(), userID, qsInput.Filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"success": true, "reviews": reviews, "pagination": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// CreateReview godoc
// @Summary Create a new book review
// @Description This endpoint creates a review of a book. A user may review a book only once
// @Tags reviews
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param body body dto.CreateReviewRequestBody true "JSON payload required to create a book review"
// @Success 201 {object} data.Review
// @Failure 400
// @Failure 401
// @Failure 404
// @Failure 422
// @Failure 500
// @Router /api/reviews [post]
func (h *Handler) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateReviewRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.decodeErrorResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	review, err := h.service.CreateReview(r.Context(), user, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.recordNotFoundResponse(w, r, "book")
		case errors.Is(err, service.ErrDuplicateRecord):
			h.duplicateReviewResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/reviews/%d", review.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"success": true, "message": "review created", "review": review}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateReview godoc
// @Summary Update a book review
// @Description This endpoint changes the rating and text of a review. Only its author may update it
// @Tags reviews
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param id path int true "ID of review"
// @Param body body dto.UpdateReviewRequestBody true "JSON payload required to update a book review"
// @Success 200 {object} data.Review
// @Failure 400
// @Failure 401
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /api/reviews/{id} [put]
func (h *Handler) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "id")
	if err != nil {
		h.recordNotFoundResponse(w, r, "review")
		return
	}
	var requestBody dto.UpdateReviewRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.decodeErrorResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	review, err := h.service.UpdateReview(r.Context(), user, reviewID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.recordNotFoundResponse(w, r, "review")
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
	err = h.encodeJSON(w, http.StatusOK, envelope{"success": true, "message": "review updated", "review": review}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteReview godoc
// @Summary Delete a book review
// @Description This endpoint deletes a review. Only its author may delete it
// @Tags reviews
// @Produce json
// @Param token header string true "Bearer token"
// @Param id path int true "ID of review"
// @Success 200
// @Failure 401
// @Failure 403
// @Failure 404
// @Failure 500
// @Router /api/reviews/{id} [delete]
func (h *Handler) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "id")
	if err != nil {
		h.recordNotFoundResponse(w, r, "review")
		return
	}
	user := h.contextGetUser(r)
	err = h.service.DeleteReview(r.Context(), user, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.recordNotFoundResponse(w, r, "review")
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"success": true, "message": "review deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
