package carrental

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
)

// newPages проксирует страницы на сервер UI. Без адреса UI любая страница отвечает 404.
func newPages(frontendURL string, log *slog.Logger) (http.Handler, error) {
	const op = "app.carrental.newPages"

	if frontendURL == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			response.NotFound(w, r, response.MsgNotFound)
		}), nil
	}

	target, err := url.Parse(frontendURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("%s: frontend url must be absolute, got %q", op, frontendURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error("frontend is unavailable",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("path", r.URL.Path),
			sl.Err(err),
		)
		response.Fail(w, r, http.StatusBadGateway, "Bad gateway", "")
	}
	return proxy, nil
}
