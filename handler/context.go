package handler

import (
	"context"
	"net/http"

	"github.com/emzola/bookreviews/data"
)

// Type contextKey is a custom contextKey type, with the underlying type string.
// This is necessary to prevent name collisions with external packages.
type contextKey string

const (
	userContextKey         = contextKey("user")
	requestIDContextKey    = contextKey("request_id")
	invalidTokenContextKey = contextKey("invalid_token")
)

// contextSetUser returns a new copy of the request with the provided User struct
// added to the context.
func (h *Handler) contextSetUser(r *http.Request, user *data.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// contextGetUser retrieves the User struct from the request context. The
// authenticate middleware always sets one, so a missing value is a bug.
func (h *Handler) contextGetUser(r *http.Request) *data.User {
	user, ok := r.Context().Value(userContextKey).(*data.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}

func contextSetRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, id)
	return r.WithContext(ctx)
}

func contextGetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}

// contextSetInvalidToken marks the request as anonymous because the bearer
// token it carried could not be resolved to a user.
func (h *Handler) contextSetInvalidToken(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), invalidTokenContextKey, true)
	ctx = context.WithValue(ctx, userContextKey, data.AnonymousUser)
	return r.WithContext(ctx)
}

func (h *Handler) contextHasInvalidToken(r *http.Request) bool {
	invalid, _ := r.Context().Value(invalidTokenContextKey).(bool)
	return invalid
}
