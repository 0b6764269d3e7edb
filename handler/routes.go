package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Routes returns the application's router wrapped in its middleware chain.
func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/api/books", h.listBooksHandler)
	router.HandlerFunc(http.MethodPost, "/api/books", h.requireAuthenticatedUser(h.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/api/books/:id", h.showBookHandler)
	router.HandlerFunc(http.MethodPut, "/api/books/:id", h.requireAuthenticatedUser(h.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/api/books/:id", h.requireAuthenticatedUser(h.deleteBookHandler))
	router.HandlerFunc(http.MethodGet, "/api/books/:id/ratings", h.showRatingDistributionHandler)
	router.HandlerFunc(http.MethodPut, "/api/books/:id/cover", h.requireAuthenticatedUser(h.updateBookCoverHandler))

	router.HandlerFunc(http.MethodGet, "/api/reviews/book/:bookId", h.listBookReviewsHandler)
	router.HandlerFunc(http.MethodGet, "/api/reviews/user/:userId", h.listUserReviewsHandler)
	router.HandlerFunc(http.MethodPost, "/api/reviews", h.requireAuthenticatedUser(h.createReviewHandler))
	router.HandlerFunc(http.MethodPut, "/api/reviews/:id", h.requireAuthenticatedUser(h.updateReviewHandler))
	router.HandlerFunc(http.MethodDelete, "/api/reviews/:id", h.requireAuthenticatedUser(h.deleteReviewHandler))

	router.HandlerFunc(http.MethodPost, "/api/auth/register", h.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", h.createAuthenticationTokenHandler)
	router.HandlerFunc(http.MethodGet, "/api/auth/me", h.requireAuthenticatedUser(h.showCurrentUserHandler))
	router.HandlerFunc(http.MethodPost, "/api/auth/logout", h.requireAuthenticatedUser(h.deleteAuthenticationTokenHandler))

	router.HandlerFunc(http.MethodGet, "/api/health", h.healthcheckHandler)

	if h.config.Metrics.Enabled {
		router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))
	}

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/openapi.json", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/openapi.json")))

	return h.recoverPanic(h.logRequest(h.metrics(h.enableCORS(h.rateLimit(h.authenticate(router))))))
}
