// Package list реализует список платежей.
//
// Пользователь видит только свои платежи. Администратор видит все и может
// отфильтровать их по userId.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

// Service описывает выборку платежей.
type Service interface {
	List(ctx context.Context, userID, status string, page, limit int) ([]*models.Payment, error)
}

// Handler обрабатывает GET /api/payments.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список платежей
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, completed, failed"
// @Param userId query string false "Фильтр по пользователю, только для администратора"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r)
		return
	}

	q := r.URL.Query()
	status := q.Get("status")
	switch status {
	case "", models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
	default:
		response.BadRequest(w, r, "parameter status must be one of [pending completed failed]")
		return
	}
	page, err1 := atoi(q.Get("page"))
	limit, err2 := atoi(q.Get("limit"))
	if err1 != nil || err2 != nil {
		response.BadRequest(w, r, "parameters page and limit must be numbers")
		return
	}

	userID := id.UserID
	if id.IsAdmin() {
		userID = q.Get("userId")
	}

	payments, err := h.service.List(r.Context(), userID, status, page, limit)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		response.Internal(w, r)
		return
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	response.OK(w, r, http.StatusOK, "OK", map[string]any{"payments": payments})
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
