package server

import (
	"context"
	"net/http"
	"time"

	"github.com/essensfindung/essensfindung/internal/domain"
)

// accessTokenCookie carries the session token, httpOnly so scripts never
// see it.
const accessTokenCookie = "access_token"

type contextKey string

const userContextKey contextKey = "user"

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requireUser reads the session cookie, validates the token, and stores
// the user in the request context. Stale sessions whose account vanished
// are rejected like missing tokens.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(accessTokenCookie)
		if err != nil || cookie.Value == "" {
			s.writeError(w, http.StatusUnauthorized, "no valid token")
			return
		}
		email, err := s.tokens.ParseAccessToken(cookie.Value)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "no valid token")
			return
		}
		user, err := s.auth.ResolveUser(r.Context(), email)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "no valid token")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) domain.User {
	user, _ := r.Context().Value(userContextKey).(domain.User)
	return user
}
