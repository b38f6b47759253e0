// Package verify реализует подтверждение и отклонение платежа администратором.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/http/request"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/payment"
)

// Request решение по платежу. Approve обязателен, Reason учитывается при отказе.
type Request struct {
	Approve *bool  `json:"approve" validate:"required"`
	Reason  string `json:"reason" validate:"max=500"`
}

// Service описывает проверку платежа.
type Service interface {
	Verify(ctx context.Context, paymentID, adminID string, approve bool, reason string) (*models.Payment, error)
}

// Handler обрабатывает PUT /api/admin/payments/{id}/verify.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Проверка платежа
// @Description Подтверждение оплачивает бронирование, отказ помечает оплату бронирования как failed.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID платежа"
// @Param request body Request true "Решение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /payments/verify/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"
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

	payment, err := h.service.Verify(r.Context(), chi.URLParam(r, "id"), id.UserID, *req.Approve, req.Reason)
	switch {
	case errors.Is(err, services.ErrPaymentNotFound):
		response.NotFound(w, r, "Payment not found")
		return
	case errors.Is(err, services.ErrPaymentFinalized):
		response.BadRequest(w, r, "Payment is already verified")
		return
	case err != nil:
		log.Error("failed to verify payment", sl.Err(err))
		response.Internal(w, r)
		return
	}

	msg := "Payment rejected"
	if *req.Approve {
		msg = "Payment approved"
	}
	response.OK(w, r, http.StatusOK, msg, map[string]any{"payment": payment})
}
