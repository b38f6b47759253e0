// Package create реализует HTTP-обработчик бронирования автомобиля.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/http/request"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/booking"
)

// Request данные бронирования. Даты в RFC 3339.
type Request struct {
	CarID     string    `json:"carId" validate:"required"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	Notes     string    `json:"notes" validate:"max=500"`
}

// Service описывает создание бронирования.
type Service interface {
	Create(ctx context.Context, userID, carID string, start, end time.Time, notes string) (*models.Booking, error)
}

// Handler обрабатывает POST /api/bookings.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Бронирование автомобиля
// @Description Цена считается как число суток, округленное вверх, умноженное на цену за сутки.
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Бронирование"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /bookings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r)
		return
	}

	var req Request
	if err := request.Decode(r, &req); err != nil {
		log.Info("invalid request", sl.Err(err))
		response.BadRequest(w, r, err.Error())
		return
	}

	booking, err := h.service.Create(r.Context(), id.UserID, req.CarID, req.StartDate, req.EndDate, req.Notes)
	switch {
	case errors.Is(err, services.ErrStartNotInFuture),
		errors.Is(err, services.ErrEndBeforeStart),
		errors.Is(err, services.ErrCarUnavailable),
		errors.Is(err, services.ErrDatesTaken):
		response.BadRequest(w, r, err.Error())
		return
	case errors.Is(err, services.ErrCarNotFound):
		response.NotFound(w, r, "Car not found")
		return
	case err != nil:
		log.Error("failed to create booking", sl.Err(err))
		response.Internal(w, r)
		return
	}

	response.OK(w, r, http.StatusCreated, "Booking created", map[string]any{"booking": booking})
}
