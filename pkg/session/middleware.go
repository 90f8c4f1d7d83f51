package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ideahub/ideahub/pkg/clientip"
)

type contextKey struct{}

// ClaimsFromContext returns the claims stored by Middleware, if any.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(Claims)
	return claims, ok
}

// MiddlewareOption configures the authentication middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	enforceIPBinding bool
}

// WithIPBinding enables rejecting tokens whose ip_address claim does not
// match the observed client address. The binding claim is optional; tokens
// without it are unaffected. This is a deployment policy decision, which is
// why it lives here rather than in the validator.
func WithIPBinding() MiddlewareOption {
	return func(c *middlewareConfig) {
		c.enforceIPBinding = true
	}
}

// Middleware authenticates requests with a Bearer token and stores the
// decoded claims in the request context.
func (v *Validator) Middleware(opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED")
				return
			}

			claims, err := v.Validate(r.Context(), token, r.Method, r.URL.Path)
			if err != nil {
				if errors.Is(err, ErrAccountNotFound) {
					writeAuthError(w, http.StatusNotFound, "USER_NOT_FOUND")
					return
				}
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED")
				return
			}

			if cfg.enforceIPBinding && claims.IPAddress != "" && claims.IPAddress != clientip.GetIP(r) {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED")
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeAuthError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": code})
}
