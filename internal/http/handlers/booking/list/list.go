// Package list реализует список всех бронирований для администратора.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/handlers/booking/my"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	services "github.com/magabrotheeeer/car-rental/internal/services/booking"
)

// Service описывает выборку всех бронирований.
type Service interface {
	List(ctx context.Context, userID, status string, page, limit int) (*services.Page, error)
}

// Handler обрабатывает GET /api/admin/bookings.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Все бронирования
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param userId query string false "Фильтр по пользователю"
// @Param status query string false "Фильтр по статусу"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/bookings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q, err := my.ParseQuery(r.URL.Query())
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	page, err := h.service.List(r.Context(), r.URL.Query().Get("userId"), q.Status, q.Page, q.Limit)
	if err != nil {
		log.Error("failed to list bookings", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusOK, "OK", page)
}
