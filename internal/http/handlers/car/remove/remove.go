// Package remove реализует HTTP-обработчик удаления автомобиля.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	services "github.com/magabrotheeeer/car-rental/internal/services/car"
)

// Service описывает удаление автомобиля.
type Service interface {
	Remove(ctx context.Context, id string) error
}

// Handler обрабатывает DELETE /api/admin/cars/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление автомобиля
// @Tags Cars
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID автомобиля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/cars/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	err := h.service.Remove(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, services.ErrCarNotFound) {
		response.NotFound(w, r, "Car not found")
		return
	}
	if err != nil {
		log.Error("failed to remove car", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusOK, "Car removed", nil)
}
