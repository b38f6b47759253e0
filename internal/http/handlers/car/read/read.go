// Package read реализует HTTP-обработчик получения автомобиля по ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/car"
)

// Service описывает чтение автомобиля.
type Service interface {
	Read(ctx context.Context, id string) (*models.Car, error)
}

// Handler обрабатывает GET /api/cars/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Автомобиль по ID
// @Tags Cars
// @Produce json
// @Param id path string true "ID автомобиля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /cars/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	car, err := h.service.Read(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, services.ErrCarNotFound) {
		response.NotFound(w, r, "Car not found")
		return
	}
	if err != nil {
		log.Error("failed to read car", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusOK, "OK", map[string]any{"car": car})
}
