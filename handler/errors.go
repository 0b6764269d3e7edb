package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emzola/bookreviews/service"
)

func (h *Handler) logError(r *http.Request, err error) {
	h.logger.PrintError(err, map[string]string{
		"request_id":     contextGetRequestID(r),
		"request_method": r.Method,
		"request_url":    r.URL.String(),
	})
}

// errorResponse writes a failure envelope carrying message.
func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	env := envelope{"success": false, "message": message}
	err := h.encodeJSON(w, status, env, nil)
	if err != nil {
		h.logError(r, err)
		w.WriteHeader(500)
	}
}

func (h *Handler) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.logError(r, err)
	message := "the server encountered a problem and could not process your request"
	h.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (h *Handler) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	h.errorResponse(w, r, http.StatusNotFound, message)
}

// recordNotFoundResponse reports a missing book, review or user by name.
func (h *Handler) recordNotFoundResponse(w http.ResponseWriter, r *http.Request, record string) {
	h.errorResponse(w, r, http.StatusNotFound, record+" not found")
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	h.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (h *Handler) contentTooLargeResponse(w http.ResponseWriter, r *http.Request) {
	message := "the request body is too large"
	h.errorResponse(w, r, http.StatusRequestEntityTooLarge, message)
}

func (h *Handler) unsupportedMediaTypeResponse(w http.ResponseWriter, r *http.Request) {
	message := "the file type is not supported for this resource"
	h.errorResponse(w, r, http.StatusUnsupportedMediaType, message)
}

func (h *Handler) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (h *Handler) duplicateReviewResponse(w http.ResponseWriter, r *http.Request) {
	h.errorResponse(w, r, http.StatusBadRequest, "you have already reviewed this book")
}

func (h *Handler) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	message := "unable to update the record due to an edit conflict, please try again"
	h.errorResponse(w, r, http.StatusConflict, message)
}

// failedValidationResponse writes the field errors carried by err.
func (h *Handler) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	env := envelope{"success": false, "message": "validation failed"}
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		env["errors"] = validationErr.Errors
	}
	err = h.encodeJSON(w, http.StatusUnprocessableEntity, env, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	message := "invalid authentication credentials"
	h.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (h *Handler) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	message := "invalid or missing authentication token"
	h.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (h *Handler) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	message := "you must be authenticated to access this resource"
	h.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (h *Handler) notPermittedResponse(w http.ResponseWriter, r *http.Request) {
	message := "your user account doesn't have the necessary permissions to access this resource"
	h.errorResponse(w, r, http.StatusForbidden, message)
}

func (h *Handler) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	message := "rate limit exceeded"
	h.errorResponse(w, r, http.StatusTooManyRequests, message)
}

func (h *Handler) uploadsDisabledResponse(w http.ResponseWriter, r *http.Request) {
	message := "cover uploads are not available"
	h.errorResponse(w, r, http.StatusServiceUnavailable, message)
}
