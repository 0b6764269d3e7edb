package handler

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"expvar"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/service"
	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

// recoverPanic middleware recovers from panics and will always be run in the event of a panic.
func (h *Handler) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				h.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// logRequest middleware tags every request with an id, echoed in the
// X-Request-ID header, and logs it once the response is written.
func (h *Handler) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		r = contextSetRequestID(r, id)
		m := httpsnoop.CaptureMetrics(next, w, r)
		h.logger.PrintInfo("request completed", map[string]string{
			"request_id":     id,
			"request_method": r.Method,
			"request_url":    r.URL.String(),
			"status":         strconv.Itoa(m.Code),
			"duration":       m.Duration.String(),
		})
	})
}

// rateLimit middleware implements IP-based rate limiting to prevent clients from making too many requests
// too quickly, and putting excessive strain on the server.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	if !h.config.Limiter.Enabled {
		return next
	}
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)
	// Forget clients that haven't been seen for three minutes.
	go func() {
		for {
			time.Sleep(time.Minute)
			mu.Lock()
			for ip, client := range clients {
				if time.Since(client.lastSeen) > 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			h.serverErrorResponse(w, r, err)
			return
		}
		mu.Lock()
		if _, found := clients[ip]; !found {
			clients[ip] = &client{
				limiter: rate.NewLimiter(rate.Limit(h.config.Limiter.RPS), h.config.Limiter.Burst),
			}
		}
		clients[ip].lastSeen = time.Now()
		if !clients[ip].limiter.Allow() {
			mu.Unlock()
			h.rateLimitExceededResponse(w, r)
			return
		}
		// Unlock before calling the next handler, not with defer.
		mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// enableCORS middleware relaxes the same-origin policy for trusted origins.
func (h *Handler) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Access-Control-Request-Method")
		origin := r.Header.Get("Origin")
		if origin != "" {
			for i := range h.config.Cors.TrustedOrigins {
				if origin == h.config.Cors.TrustedOrigins[i] {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
						w.Header().Set("Access-Control-Allow-Methods", "OPTIONS, PUT, DELETE")
						w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
						w.WriteHeader(http.StatusOK)
						return
					}
					break
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate middleware resolves the bearer token of a request to a user.
// Requests without a token carry the anonymous user. Resolved users are
// cached by token hash.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")
		authorizationHeader := r.Header.Get("Authorization")
		headerParts := strings.Split(authorizationHeader, " ")
		if authorizationHeader == "" || headerParts[0] == "Basic" {
			r = h.contextSetUser(r, data.AnonymousUser)
			next.ServeHTTP(w, r)
			return
		}
		// Public routes ignore a bad token; protected ones reject it in
		// requireAuthenticatedUser.
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			r = h.contextSetInvalidToken(r)
			next.ServeHTTP(w, r)
			return
		}
		token := headerParts[1]
		key := string(data.HashToken(token))
		if item := h.cache.Get(key); item != nil {
			r = h.contextSetUser(r, item.Value())
			next.ServeHTTP(w, r)
			return
		}
		user, err := h.service.GetUserForToken(r.Context(), data.ScopeAuthentication, token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrFailedValidation):
				r = h.contextSetInvalidToken(r)
				next.ServeHTTP(w, r)
			default:
				h.serverErrorResponse(w, r, err)
			}
			return
		}
		h.cache.Set(key, user, ttlcache.DefaultTTL)
		r = h.contextSetUser(r, user)
		next.ServeHTTP(w, r)
	})
}

// forgetUser drops every cached token lookup that resolved to userID.
func (h *Handler) forgetUser(userID int64) {
	for key, item := range h.cache.Items() {
		if item.Value().ID == userID {
			h.cache.Delete(key)
		}
	}
}

// requireAuthenticatedUser middleware checks that a user is not anonymous.
// Requests whose bearer token was rejected get the invalid token response.
func (h *Handler) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := h.contextGetUser(r)
		if user.IsAnonymous() {
			if h.contextHasInvalidToken(r) {
				h.invalidAuthenticationTokenResponse(w, r)
				return
			}
			h.authenticationRequiredResponse(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

var (
	publishMetrics                 sync.Once
	totalRequestsReceived          *expvar.Int
	totalResponsesSent             *expvar.Int
	totalProcessingTimeMicrosecond *expvar.Int
	totalResponsesSentByStatus     *expvar.Map
)

// metrics middleware exposes request-level metrics through expvar.
func (h *Handler) metrics(next http.Handler) http.Handler {
	if !h.config.Metrics.Enabled {
		return next
	}
	// expvar panics on a second registration of the same name.
	publishMetrics.Do(func() {
		totalRequestsReceived = expvar.NewInt("total_requests_received")
		totalResponsesSent = expvar.NewInt("total_responses_sent")
		totalProcessingTimeMicrosecond = expvar.NewInt("total_processing_time_μs")
		totalResponsesSentByStatus = expvar.NewMap("total_responses_sent_by_status")
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		totalRequestsReceived.Add(1)
		metrics := httpsnoop.CaptureMetrics(next, w, r)
		totalResponsesSent.Add(1)
		totalProcessingTimeMicrosecond.Add(metrics.Duration.Microseconds())
		totalResponsesSentByStatus.Add(strconv.Itoa(metrics.Code), 1)
	})
}

// basicAuth middleware implements basic authentication for the /debug/vars endpoint.
func (h *Handler) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if ok {
			usernameHash := sha256.Sum256([]byte(username))
			passwordHash := sha256.Sum256([]byte(password))
			expectedUsernameHash := sha256.Sum256([]byte(h.config.BasicAuth.Username))
			expectedPasswordHash := sha256.Sum256([]byte(h.config.BasicAuth.Password))
			usernameMatch := (subtle.ConstantTimeCompare(usernameHash[:], expectedUsernameHash[:]) == 1)
			passwordMatch := (subtle.ConstantTimeCompare(passwordHash[:], expectedPasswordHash[:]) == 1)
			if usernameMatch && passwordMatch {
				next.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
		h.invalidCredentialsResponse(w, r)
	})
}
