package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/bookreviews/data/dto"
	"github.com/emzola/bookreviews/service"
)

// CreateAuthenticationToken godoc
// @Summary Login
// @Description This endpoint logs in a user by creating an authentication token
// @Tags tokens
// @Accept  json
// @Produce json
// @Param body body dto.CreateAuthenticationTokenRequestBody true "JSON payload required to create an authentication token"
// @Success 200
// @Failure 400
// @Failure 401
// @Failure 422
// @Failure 500
// @Router /api/auth/login [post]
func (h *Handler) createAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateAuthenticationTokenRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.decodeErrorResponse(w, r, err)
		return
	}
	user, token, err := h.service.CreateAuthenticationToken(r.Context(), requestBody.Email, requestBody.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.invalidCredentialsResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	env := envelope{
		"success":   true,
		"message":   "login successful",
		"user":      user,
		"token":     token.Plaintext,
		"expiresAt": token.Expiry,
	}
	err = h.encodeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteAuthenticationToken godoc
// @Summary Logout
// @Description This endpoint logs out a user by deleting all of their authentication tokens
// @Tags tokens
// @Produce json
// @Param token header string true "Bearer token"
// @Success 200
// @Failure 401
// @Failure 500
// @Router /api/auth/logout [post]
func (h *Handler) deleteAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	user := h.contextGetUser(r)
	err := h.service.DeleteAuthenticationTokens(r.Context(), user.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.forgetUser(user.ID)
	err = h.encodeJSON(w, http.StatusOK, envelope{"success": true, "message": "logged out"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
