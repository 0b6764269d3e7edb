package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emzola/bookreviews/config"
	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/internal/jsonlog"
	"github.com/emzola/bookreviews/repository/memory"
	"github.com/emzola/bookreviews/service"
	"github.com/jellydator/ttlcache/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	data.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, configure ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Env = "testing"
	cfg.Database.Driver = "memory"
	cfg.Limiter.Enabled = false
	for _, fn := range configure {
		fn(&cfg)
	}
	var wg sync.WaitGroup
	logger := jsonlog.New(io.Discard, jsonlog.LevelInfo)
	svc := service.New(cfg, &wg, logger, memory.New())
	cache := ttlcache.New(ttlcache.WithTTL[string, *data.User](time.Minute))
	h := New(cfg, logger, cache, svc)
	ts := httptest.NewServer(h.Routes())
	t.Cleanup(ts.Close)
	return &testServer{ts}
}

// do sends a JSON request and decodes the JSON response envelope.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		js, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(js)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var env map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	return res.StatusCode, env
}

// register signs up a user and returns its id and bearer token.
func (ts *testServer) register(t *testing.T, name string) (int64, string) {
	t.Helper()
	email := strings.ToLower(strings.Fields(name)[0]) + "@example.com"
	status, env := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "pa55word",
	})
	require.Equal(t, http.StatusCreated, status, env)
	user := env["user"].(map[string]any)
	return int64(user["id"].(float64)), env["token"].(string)
}

func (ts *testServer) createBook(t *testing.T, token, title string) int64 {
	t.Helper()
	status, env := ts.do(t, http.MethodPost, "/api/books", token, map[string]any{
		"title":       title,
		"author":      "Frank Herbert",
		"description": "A desert planet and the spice that rules it.",
		"genre":       "Science Fiction",
		"year":        1965,
	})
	require.Equal(t, http.StatusCreated, status, env)
	return int64(env["book"].(map[string]any)["id"].(float64))
}

func (ts *testServer) createReview(t *testing.T, token string, bookID int64, rating int) (int, map[string]any) {
	t.Helper()
	return ts.do(t, http.MethodPost, "/api/reviews", token, map[string]any{
		"bookId":     bookID,
		"rating":     rating,
		"reviewText": "A classic that holds up on every reading.",
	})
}

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(t)
	res, err := ts.Client().Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))

	var env map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	assert.Equal(t, "available", env["status"])
	assert.Equal(t, "testing", env["system_info"].(map[string]any)["environment"])
}

func TestDuneScenario(t *testing.T) {
	ts := newTestServer(t)
	_, alice := ts.register(t, "Alice Reader")
	bobID, bob := ts.register(t, "Bob Critic")
	_, carol := ts.register(t, "Carol Fan")

	duneID := ts.createBook(t, alice, "Dune")

	status, env := ts.createReview(t, bob, duneID, 5)
	require.Equal(t, http.StatusCreated, status, env)
	review := env["review"].(map[string]any)
	assert.Equal(t, "Dune", review["book"].(map[string]any)["title"])
	assert.Equal(t, "Bob Critic", review["user"].(map[string]any)["name"])

	status, _ = ts.createReview(t, carol, duneID, 4)
	require.Equal(t, http.StatusCreated, status)

	status, env = ts.createReview(t, bob, duneID, 3)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "you have already reviewed this book", env["message"])

	status, env = ts.do(t, http.MethodGet, fmt.Sprintf("/api/books/%d", duneID), "", nil)
	require.Equal(t, http.StatusOK, status)
	book := env["book"].(map[string]any)
	assert.Equal(t, 4.5, book["averageRating"])
	assert.Equal(t, float64(2), book["reviewCount"])
	assert.Len(t, book["reviews"], 2)
	assert.Equal(t, "Alice Reader", book["addedBy"].(map[string]any)["name"])

	status, env = ts.do(t, http.MethodGet, fmt.Sprintf("/api/books/%d/ratings", duneID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"1": 0.0, "2": 0.0, "3": 0.0, "4": 1.0, "5": 1.0}, env["distribution"])

	status, env = ts.do(t, http.MethodGet, "/api/books?search=DUNE", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, env["books"], 1)
	pagination := env["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pagination["totalItems"])
	assert.Equal(t, float64(5), pagination["pageSize"])

	status, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/books/%d", duneID), bob, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/books/%d", duneID), alice, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = ts.do(t, http.MethodGet, fmt.Sprintf("/api/books/%d", duneID), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "book not found", env["message"])

	status, env = ts.do(t, http.MethodGet, fmt.Sprintf("/api/reviews/user/%d", bobID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, env["reviews"])
}

func TestReviewEndpoints(t *testing.T) {
	ts := newTestServer(t)
	_, alice := ts.register(t, "Alice Reader")
	bobID, bob := ts.register(t, "Bob Critic")
	bookID := ts.createBook(t, alice, "Dune")

	status, env := ts.createReview(t, bob, bookID, 2)
	require.Equal(t, http.StatusCreated, status)
	reviewID := int64(env["review"].(map[string]any)["id"].(float64))
	path := fmt.Sprintf("/api/reviews/%d", reviewID)
	update := map[string]any{"rating": 4, "reviewText": "Better on a second reading."}

	status, _ = ts.do(t, http.MethodPut, path, alice, update)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = ts.do(t, http.MethodPut, "/api/reviews/9999", bob, update)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "review not found", env["message"])

	status, env = ts.do(t, http.MethodPut, path, bob, update)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(4), env["review"].(map[string]any)["rating"])

	status, env = ts.do(t, http.MethodGet, fmt.Sprintf("/api/reviews/book/%d?limit=1", bookID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, env["reviews"], 1)

	status, env = ts.do(t, http.MethodGet, fmt.Sprintf("/api/reviews/user/%d", bobID), "", nil)
	require.Equal(t, http.StatusOK, status)
	reviews := env["reviews"].([]any)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Frank Herbert", reviews[0].(map[string]any)["book"].(map[string]any)["author"])

	status, env = ts.createReview(t, bob, 9999, 3)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "book not found", env["message"])

	status, _ = ts.do(t, http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = ts.do(t, http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestValidationResponses(t *testing.T) {
	ts := newTestServer(t)
	_, alice := ts.register(t, "Alice Reader")

	status, env := ts.do(t, http.MethodPost, "/api/books", alice, map[string]any{
		"title": "", "author": "Someone", "description": "short", "genre": "Poetry", "year": 3000,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	errs := env["errors"].(map[string]any)
	for _, field := range []string{"title", "description", "genre", "year"} {
		assert.Contains(t, errs, field)
	}

	status, env = ts.do(t, http.MethodPost, "/api/books", alice, `{"title": "Dune",`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "body contains badly-formed JSON", env["message"])

	status, env = ts.do(t, http.MethodPost, "/api/books", alice, `{"isbn": "123"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env["message"], "unknown key")

	status, env = ts.do(t, http.MethodGet, "/api/books?page=abc&sortOrder=up", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env["errors"], "page")

	status, env = ts.do(t, http.MethodGet, "/api/books?sortOrder=up", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env["errors"], "sortOrder")

	status, env = ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice Twin", "email": "alice@example.com", "password": "pa55word",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env["errors"], "email")
}

func TestZeroPagingFallsBackToDefaults(t *testing.T) {
	ts := newTestServer(t)
	_, alice := ts.register(t, "Alice Reader")
	bookID := ts.createBook(t, alice, "Dune")

	tests := []struct {
		path     string
		pageSize float64
	}{
		{"/api/books?limit=0&page=0", 5},
		{fmt.Sprintf("/api/reviews/book/%d?limit=0&page=0", bookID), 10},
	}
	for _, tt := range tests {
		status, env := ts.do(t, http.MethodGet, tt.path, "", nil)
		require.Equal(t, http.StatusOK, status, tt.path)
		pagination := env["pagination"].(map[string]any)
		assert.Equal(t, tt.pageSize, pagination["pageSize"], tt.path)
		assert.Equal(t, float64(1), pagination["currentPage"], tt.path)
	}

	status, env := ts.do(t, http.MethodGet, "/api/books?limit=-1", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env["errors"], "limit")
}

func TestBodyFieldTypes(t *testing.T) {
	ts := newTestServer(t)
	_, alice := ts.register(t, "Alice Reader")
	bookID := ts.createBook(t, alice, "Dune")

	tests := []struct {
		name, method, path, body, field, message string
	}{
		{"float rating", http.MethodPost, "/api/reviews", fmt.Sprintf(`{"bookId": %d, "rating": 4.0, "reviewText": "A classic that holds up."}`, bookID), "rating", "must be an integer"},
		{"string rating", http.MethodPost, "/api/reviews", fmt.Sprintf(`{"bookId": %d, "rating": "5", "reviewText": "A classic that holds up."}`, bookID), "rating", "must be an integer"},
		{"string year", http.MethodPost, "/api/books", `{"title": "Dune", "year": "1965"}`, "year", "must be an integer"},
		{"numeric email", http.MethodPost, "/api/auth/login", `{"email": 42, "password": "pa55word"}`, "email", "must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := ts.do(t, tt.method, tt.path, alice, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, status)
			assert.Equal(t, "validation failed", env["message"])
			assert.Equal(t, map[string]any{tt.field: tt.message}, env["errors"])
		})
	}

	status, env := ts.do(t, http.MethodPost, "/api/reviews", alice, `[1, 2]`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env["message"], "incorrect JSON type")
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t)
	_, alice := ts.register(t, "Alice Reader")

	status, _ := ts.do(t, http.MethodPost, "/api/books", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = ts.do(t, http.MethodGet, "/api/auth/me", "ABCDEFGHIJKLMNOPQRSTUVWXYZ", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, env["success"])

	status, env = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "Alice@Example.com", "password": "pa55word",
	})
	require.Equal(t, http.StatusOK, status)
	login := env["token"].(string)
	assert.NotEqual(t, alice, login)

	status, env = ts.do(t, http.MethodGet, "/api/auth/me", login, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice@example.com", env["user"].(map[string]any)["email"])
	assert.NotContains(t, env["user"], "password")

	// Logging out revokes every token, including cached lookups.
	status, _ = ts.do(t, http.MethodGet, "/api/auth/me", alice, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.do(t, http.MethodPost, "/api/auth/logout", login, nil)
	require.Equal(t, http.StatusOK, status)
	for _, token := range []string{alice, login} {
		status, _ = ts.do(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
}

func TestStaleTokenOnPublicRoutes(t *testing.T) {
	ts := newTestServer(t)
	_, alice := ts.register(t, "Alice Reader")
	bookID := ts.createBook(t, alice, "Dune")
	status, _ := ts.do(t, http.MethodPost, "/api/auth/logout", alice, nil)
	require.Equal(t, http.StatusOK, status)

	for _, token := range []string{alice, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"} {
		for _, path := range []string{
			"/api/books",
			fmt.Sprintf("/api/books/%d", bookID),
			fmt.Sprintf("/api/books/%d/ratings", bookID),
			fmt.Sprintf("/api/reviews/book/%d", bookID),
		} {
			status, env := ts.do(t, http.MethodGet, path, token, nil)
			assert.Equal(t, http.StatusOK, status, path)
			assert.Equal(t, true, env["success"], path)
		}

		status, env := ts.createReview(t, token, bookID, 5)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "invalid or missing authentication token", env["message"])
	}

	// A malformed header is treated the same way.
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/books", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Token abc")
	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	status, env := ts.do(t, http.MethodPost, "/api/reviews", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "you must be authenticated to access this resource", env["message"])
}

func TestRouting(t *testing.T) {
	ts := newTestServer(t)

	status, env := ts.do(t, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, env["success"])

	status, _ = ts.do(t, http.MethodPatch, "/api/books", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)

	status, env = ts.do(t, http.MethodGet, "/api/books/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "book not found", env["message"])

	status, env = ts.do(t, http.MethodGet, "/openapi.json", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Book Reviews API", env["info"].(map[string]any)["title"])
}

func TestUpdateBookCoverDisabled(t *testing.T) {
	ts := newTestServer(t)
	_, alice := ts.register(t, "Alice Reader")
	bookID := ts.createBook(t, alice, "Dune")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("cover", "cover.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/api/books/%d/cover", ts.URL, bookID), &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+alice)
	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Limiter.Enabled = true
		cfg.Limiter.RPS = 1
		cfg.Limiter.Burst = 1
	})
	status, _ := ts.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, env := ts.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "rate limit exceeded", env["message"])
}
