// Package update реализует HTTP-обработчик изменения автомобиля.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/handlers/car/create"
	"github.com/magabrotheeeer/car-rental/internal/http/request"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/car"
)

// Service описывает изменение автомобиля.
type Service interface {
	Update(ctx context.Context, car models.Car) (*models.Car, error)
}

// Handler обрабатывает PUT /api/admin/cars/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменение автомобиля
// @Tags Cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID автомобиля"
// @Param request body create.Request true "Автомобиль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/cars/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req create.Request
	if err := request.Decode(r, &req); err != nil {
		log.Info("invalid request", sl.Err(err))
		response.BadRequest(w, r, err.Error())
		return
	}

	car := req.Car()
	car.ID = chi.URLParam(r, "id")

	updated, err := h.service.Update(r.Context(), car)
	if errors.Is(err, services.ErrCarNotFound) {
		response.NotFound(w, r, "Car not found")
		return
	}
	if err != nil {
		log.Error("failed to update car", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusOK, "Car updated", map[string]any{"car": updated})
}
