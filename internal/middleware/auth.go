package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"aichat-backend/internal/config"
	"aichat-backend/internal/model"
	"aichat-backend/internal/utils"
)

type contextKey string

const (
	sessionKey   contextKey = "session"
	requestIDKey contextKey = "request_id"
)

type Middleware struct {
	Config  *config.Config
	limiter *ipLimiter
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{
		Config:  cfg,
		limiter: newIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimiterTTL),
	}
}

// Stop releases the limiter's cleanup goroutine.
func (m *Middleware) Stop() {
	m.limiter.Stop()
}

// SessionMiddleware resolves a Bearer token into a *model.Session on the
// request context. When AUTH_REQUIRED is off a missing token is let through;
// a present but invalid one is always rejected.
func (m *Middleware) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			if m.Config.AuthRequired {
				utils.ErrorResponse(w, http.StatusUnauthorized, "Missing session token")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.parseToken(header)
		if err != nil {
			utils.ErrorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireSession rejects requests that carry no valid session, regardless of
// AUTH_REQUIRED.
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.parseToken(r.Header.Get("Authorization"))
		if err != nil {
			utils.ErrorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

func (m *Middleware) parseToken(authHeader string) (*model.Session, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid authorization format")
	}
	session, err := utils.ParseSessionToken(parts[1], m.Config.JWTSecret)
	if err != nil {
		return nil, errors.New("invalid or expired session token")
	}
	return session, nil
}

func WithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext returns the session placed by SessionMiddleware or
// RequireSession, if any.
func SessionFromContext(ctx context.Context) (*model.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*model.Session)
	return session, ok && session != nil
}
