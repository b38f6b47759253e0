// Package featured реализует витрину: доступные автомобили с лучшим рейтингом.
package featured

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

// Service описывает витрину.
type Service interface {
	Featured(ctx context.Context) ([]*models.Car, error)
}

// Handler обрабатывает GET /api/cars/featured.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Витрина автомобилей
// @Tags Cars
// @Produce json
// @Success 200 {object} response.Response
// @Router /cars/featured [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.featured"

	cars, err := h.service.Featured(r.Context())
	if err != nil {
		h.log.Error("failed to load featured cars",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		response.Internal(w, r)
		return
	}
	if cars == nil {
		cars = []*models.Car{}
	}
	response.OK(w, r, http.StatusOK, "OK", map[string]any{"cars": cars})
}
