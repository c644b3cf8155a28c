package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"starships-server/internal/auth"
	"starships-server/internal/shared/errors"
	"starships-server/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

const authCookieName = "auth_token"

// Authenticator guards write routes with an admin JWT. Without a secret it lets every
// request through.
type Authenticator struct {
	secret string
	logger *slog.Logger
}

func NewAuthenticator(secret string, logger *slog.Logger) *Authenticator {
	if secret == "" {
		logger.Warn("JWT_SECRET not set, write routes are unauthenticated")
	}
	return &Authenticator{secret: secret, logger: logger}
}

func (a *Authenticator) Enabled() bool {
	return a.secret != ""
}

// JWT validates the bearer token or auth cookie and stores the claims in the request context.
func (a *Authenticator) JWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := a.logger.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing JWT authentication")

		token := tokenFromRequest(r)
		if token == "" {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := auth.ValidateToken(a.secret, token)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		logger.Debug("JWT authentication successful", "subject", claims.Subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := a.logger.With("middleware", "admin", "method", r.Method, "path", r.URL.Path)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if claims.Role != auth.RoleAdmin {
			logger.Warn("Non-admin attempted a write",
				"subject", claims.Subject,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin is the guard applied to write routes.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	if !a.Enabled() {
		return next
	}
	return a.JWT(a.admin(next))
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(authCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
