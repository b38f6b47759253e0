// Package cancel реализует отмену бронирования пользователем.
package cancel

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

// Service описывает отмену бронирования.
type Service interface {
	Cancel(ctx context.Context, id, userID string) (*models.Booking, error)
}

// Handler обрабатывает PUT /api/bookings/{id}/cancel.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отмена бронирования
// @Description Доступна для pending и confirmed, пока до начала аренды больше окна отмены.
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID бронирования"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /bookings/{id}/cancel [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r)
		return
	}

	booking, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), id.UserID)
	switch {
	case errors.Is(err, services.ErrBookingNotFound):
		response.NotFound(w, r, "Booking not found")
		return
	case errors.Is(err, services.ErrNotCancellable):
		response.BadRequest(w, r, "Booking can not be cancelled")
		return
	case errors.Is(err, services.ErrCancellationWindow):
		response.BadRequest(w, r, "Cancellation window has passed")
		return
	case err != nil:
		log.Error("failed to cancel booking", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusOK, "Booking cancelled", map[string]any{"booking": booking})
}
