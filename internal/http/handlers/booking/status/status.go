// Package status реализует смену статуса бронирования администратором.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/request"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/booking"
)

// Request новый статус: pending, confirmed, completed или cancelled.
type Request struct {
	Status string `json:"status" validate:"required"`
}

// Service описывает смену статуса.
type Service interface {
	UpdateStatus(ctx context.Context, id, status string) (*models.Booking, error)
}

// Handler обрабатывает PUT /api/admin/bookings/{id}/status.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Смена статуса бронирования
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID бронирования"
// @Param request body Request true "Новый статус"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /bookings/{id}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := request.Decode(r, &req); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		response.BadRequest(w, r, "Invalid booking status")
		return
	case errors.Is(err, services.ErrBookingNotFound):
		response.NotFound(w, r, "Booking not found")
		return
	case err != nil:
		log.Error("failed to update booking status", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusOK, "Booking status updated", map[string]any{"booking": booking})
}
