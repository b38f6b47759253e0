// Package create реализует регистрацию платежа по бронированию.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/http/request"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/payment"
)

// Request платеж по бронированию. Сумма берется из бронирования.
type Request struct {
	BookingID string `json:"bookingId" validate:"required"`
	Method    string `json:"method" validate:"required,oneof=card cash transfer"`
}

// Service описывает создание платежа.
type Service interface {
	Create(ctx context.Context, userID, bookingID, method string) (*models.Payment, error)
}

// Handler обрабатывает POST /api/payments.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Регистрация платежа
// @Description Платеж создается в статусе pending и ждет проверки администратором.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Платеж"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
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
		response.BadRequest(w, r, err.Error())
		return
	}

	payment, err := h.service.Create(r.Context(), id.UserID, req.BookingID, req.Method)
	switch {
	case errors.Is(err, services.ErrBookingNotFound):
		response.NotFound(w, r, "Booking not found")
		return
	case errors.Is(err, services.ErrBookingClosed), errors.Is(err, services.ErrAlreadyPaid):
		response.BadRequest(w, r, err.Error())
		return
	case err != nil:
		log.Error("failed to create payment", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusCreated, "Payment created", map[string]any{"payment": payment})
}
