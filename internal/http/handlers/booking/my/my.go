// Package my реализует список бронирований текущего пользователя.
package my

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/http/request"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/booking"
)

// Query параметры списка бронирований.
type Query struct {
	Status string
	Page   int `validate:"min=0"`
	Limit  int `validate:"min=0"`
	Stats  bool
}

// ParseQuery читает status, page, limit и stats из строки запроса.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{Status: v.Get("status")}
	if q.Status != "" && !slices.Contains(models.BookingStatuses, q.Status) {
		return q, &request.Error{Message: "parameter status is not a booking status"}
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &q.Page}, {"limit", &q.Limit}} {
		if raw := v.Get(p.name); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return q, &request.Error{Message: fmt.Sprintf("parameter %s must be a number", p.name)}
			}
			*p.dst = n
		}
	}
	if raw := v.Get("stats"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, &request.Error{Message: "parameter stats must be true or false"}
		}
		q.Stats = b
	}
	return q, request.Validate(q)
}

// Service описывает выборку бронирований пользователя.
type Service interface {
	My(ctx context.Context, userID, status string, page, limit int, withStats bool) (*services.Page, error)
}

// Handler обрабатывает GET /api/bookings/my.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мои бронирования
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Фильтр по статусу"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Param stats query bool false "Добавить статистику"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /bookings/my [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.my"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r)
		return
	}
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	page, err := h.service.My(r.Context(), id.UserID, q.Status, q.Page, q.Limit, q.Stats)
	if err != nil {
		log.Error("failed to list bookings", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusOK, "OK", page)
}
