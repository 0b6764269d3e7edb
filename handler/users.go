package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/bookreviews/data/dto"
	"github.com/emzola/bookreviews/service"
)

// RegisterUser godoc
// @Summary Register a new user
// @Description This endpoint registers a new user and signs them in
// @Tags users
// @Accept  json
// @Produce json
// @Param body body dto.RegisterUserRequestBody true "JSON payload required to register a user"
// @Success 201 {object} data.User
// @Failure 400
// @Failure 422
// @Failure 500
// @Router /api/auth/register [post]
func (h *Handler) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.RegisterUserRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.decodeErrorResponse(w, r, err)
		return
	}
	user, token, err := h.service.RegisterUser(r.Context(), requestBody.Name, requestBody.Email, requestBody.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	env := envelope{
		"success":   true,
		"message":   "user registered",
		"user":      user,
		"token":     token.Plaintext,
		"expiresAt": token.Expiry,
	}
	err = h.encodeJSON(w, http.StatusCreated, env, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowCurrentUser godoc
// @Summary Show the signed in user
// @Tags users
// @Produce json
// @Param token header string true "Bearer token"
// @Success 200 {object} data.User
// @Failure 401
// @Failure 500
// @Router /api/auth/me [get]
func (h *Handler) showCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := h.contextGetUser(r)
	err := h.encodeJSON(w, http.StatusOK, envelope{"success": true, "user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
