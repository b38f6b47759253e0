// Package update реализует частичное изменение настроек компании.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/request"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

// Service описывает изменение настроек.
type Service interface {
	Update(ctx context.Context, patch models.SettingPatch) (*models.Setting, error)
}

// Handler обрабатывает PUT /api/admin/settings.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменение настроек компании
// @Description Меняются только переданные поля.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SettingPatch true "Изменения"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/settings [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.setting.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var patch models.SettingPatch
	if err := request.Decode(r, &patch); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	st, err := h.service.Update(r.Context(), patch)
	if err != nil {
		log.Error("failed to update settings", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusOK, "Settings updated", map[string]any{"settings": st})
}
