package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dreamkkun/retention/internal/access"
	"github.com/dreamkkun/retention/internal/users"
)

type ctxKey int

const sessionKey ctxKey = iota

// SessionFrom returns the session attached by SessionAuth.
func SessionFrom(ctx context.Context) (access.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(access.Session)
	return sess, ok
}

// SessionAuth validates the bearer session token and, when role is
// non-empty, requires that role.
func SessionAuth(sessions *access.Sessions, role users.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				jsonError(w, "missing authorization", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(auth, "Bearer ")
			sess, ok := sessions.Get(token)
			if !ok {
				jsonError(w, "session expired or invalid", http.StatusUnauthorized)
				return
			}
			if role != "" && sess.Role != string(role) {
				jsonError(w, "insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
		})
	}
}

// AllowlistMiddleware rejects requests from addresses outside the
// configured allow-list.
func AllowlistMiddleware(allow *access.Allowlist, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow.Allowed(r.RemoteAddr) {
				log.Warn("blocked request", "remote", r.RemoteAddr, "path", r.URL.Path)
				jsonError(w, "access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs incoming requests and records them in the
// append-only access log.
func RequestLogger(log *slog.Logger, accessLog *access.Log) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: 200}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			if accessLog != nil {
				accessLog.Record(access.Entry{
					Time:   start.UTC(),
					IP:     r.RemoteAddr,
					Method: r.Method,
					Path:   r.URL.Path,
					Status: sw.status,
				})
			}
		})
	}
}

// CORS allows the web client origin. The board's React app runs on a
// different port than the API.
func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
