package middlewarectx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/lib/jwt"
)

// RouteClass класс страницы для Session Gate.
type RouteClass int

const (
	// ClassPublic доступна всем.
	ClassPublic RouteClass = iota
	// ClassAdmin только администраторам.
	ClassAdmin
	// ClassProtected любому вошедшему пользователю.
	ClassProtected
	// ClassAuthPage страницы входа и регистрации.
	ClassAuthPage
)

// Адреса перенаправлений.
const (
	SignInPath = "/sign-in"
	HomePath   = "/"
	AdminPath  = "/admin"
)

// Decision решение Session Gate. Пустой Redirect означает пропуск запроса.
type Decision struct {
	Redirect string
}

// Allowed сообщает, что запрос пропускается дальше.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// hasPrefix совпадение по границе сегмента: /admin и /admin/x, но не /administrator.
func hasPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Classify определяет класс страницы по пути.
func Classify(path string) RouteClass {
	switch {
	case hasPrefix(path, "/admin"):
		return ClassAdmin
	case hasPrefix(path, "/profile"), hasPrefix(path, "/my-bookings"):
		return ClassProtected
	case hasPrefix(path, "/sign-in"), hasPrefix(path, "/sign-up"):
		return ClassAuthPage
	default:
		return ClassPublic
	}
}

// Decide применяет таблицу доступа. id == nil означает анонимного пользователя.
func Decide(class RouteClass, id *Identity) Decision {
	switch class {
	case ClassAdmin:
		if id == nil {
			return Decision{Redirect: SignInPath}
		}
		if !id.IsAdmin() {
			return Decision{Redirect: HomePath}
		}
	case ClassProtected:
		if id == nil {
			return Decision{Redirect: SignInPath}
		}
	case ClassAuthPage:
		if id.IsAdmin() {
			return Decision{Redirect: AdminPath}
		}
		if id != nil {
			return Decision{Redirect: HomePath}
		}
	}
	return Decision{}
}

// SessionGate решает до обработчика страниц, пропустить запрос или перенаправить (307).
// Токен берется только из cookie, ошибка проверки равносильна его отсутствию.
func SessionGate(verifier jwt.Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := Classify(r.URL.Path)

			var id *Identity
			if token := TokenFromRequest(r, FromCookie); token != "" {
				if claims, err := verifier.Verify(token); err == nil {
					id = identityFromClaims(claims)
				}
			}

			d := Decide(class, id)
			if !d.Allowed() {
				log.Debug("session gate redirect",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
					slog.String("to", d.Redirect),
				)
				http.Redirect(w, r, d.Redirect, http.StatusTemporaryRedirect)
				return
			}
			if id != nil {
				r = r.WithContext(WithIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}
