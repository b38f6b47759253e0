// Package middlewarectx содержит HTTP middleware сервиса: проверку токена
// сессии и роли для API, Session Gate для страниц, ограничение частоты
// запросов и сбор метрик.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/jwt"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

// CookieName имя cookie с токеном сессии.
const CookieName = "token"

// TokenSource откуда middleware берет токен.
type TokenSource uint8

const (
	// FromBearer заголовок Authorization: Bearer <token>.
	FromBearer TokenSource = 1 << iota
	// FromCookie cookie token.
	FromCookie
	// FromAny сначала заголовок, затем cookie.
	FromAny = FromBearer | FromCookie
)

// Identity пользователь, от имени которого выполняется запрос.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin сообщает, что у пользователя роль admin.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

type identityKey struct{}

// WithIdentity кладет пользователя в контекст.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom достает пользователя из контекста.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// TokenFromRequest возвращает токен из разрешенных источников или пустую строку.
func TokenFromRequest(r *http.Request, sources TokenSource) string {
	if sources&FromBearer != 0 {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			if token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); token != "" {
				return token
			}
		}
	}
	if sources&FromCookie != 0 {
		if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

func identityFromClaims(c *jwt.Claims) *Identity {
	return &Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

// Authenticate проверяет токен сессии и кладет Identity в контекст.
// Отсутствующий или невалидный токен дает 401, не заданный секрет 500.
func Authenticate(verifier jwt.Verifier, log *slog.Logger, sources TokenSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := TokenFromRequest(r, sources)
			if token == "" {
				log.Debug("missing session token")
				response.Unauthorized(w, r)
				return
			}

			claims, err := verifier.Verify(token)
			if errors.Is(err, jwt.ErrSecretMissing) {
				log.Error("jwt secret is not configured", sl.Err(err))
				response.Internal(w, r)
				return
			}
			if err != nil {
				log.Info("invalid session token", sl.Err(err))
				response.Unauthorized(w, r)
				return
			}

			ctx := WithIdentity(r.Context(), identityFromClaims(claims))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole пропускает только пользователей с указанной ролью.
// Ставится после Authenticate.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				response.Unauthorized(w, r)
				return
			}
			if id.Role != role {
				response.Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
