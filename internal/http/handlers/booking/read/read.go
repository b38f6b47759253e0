// Package read реализует HTTP-обработчик получения бронирования по ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/booking"
)

// Service описывает чтение бронирования.
type Service interface {
	Read(ctx context.Context, id, userID string, isAdmin bool) (*models.Booking, error)
}

// Handler обрабатывает GET /api/bookings/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Бронирование по ID
// @Description Владелец видит свое бронирование, администратор любое.
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID бронирования"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /bookings/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r)
		return
	}

	booking, err := h.service.Read(r.Context(), chi.URLParam(r, "id"), id.UserID, id.IsAdmin())
	if errors.Is(err, services.ErrBookingNotFound) {
		response.NotFound(w, r, "Booking not found")
		return
	}
	if err != nil {
		log.Error("failed to read booking", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusOK, "OK", map[string]any{"booking": booking})
}
