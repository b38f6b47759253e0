// Package public отдает контакты компании без авторизации.
package public

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

// Service описывает чтение публичных настроек.
type Service interface {
	Public(ctx context.Context) (*models.PublicSetting, error)
}

// Handler обрабатывает GET /api/settings/public.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Публичные настройки компании
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Response
// @Router /settings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.setting.public"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	st, err := h.service.Public(r.Context())
	if err != nil {
		log.Error("failed to read settings", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusOK, "OK", map[string]any{"settings": st})
}
