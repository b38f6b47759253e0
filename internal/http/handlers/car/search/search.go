// Package search реализует публичный поиск автомобилей.
//
// Параметры строки запроса: q, brand, fuelType, transmission, city, minPrice,
// maxPrice, seats, available, sort, page, limit. Все необязательные.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/request"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

// Query разобранные параметры поиска.
type Query struct {
	Q            string `validate:"max=100"`
	Brand        string `validate:"max=50"`
	FuelType     string `validate:"omitempty,oneof=benzin dizel elektr gibrid"`
	Transmission string `validate:"omitempty,oneof=manual avtomat"`
	City         string `validate:"max=100"`
	MinPrice     int64  `validate:"min=0"`
	MaxPrice     int64  `validate:"omitempty,gtefield=MinPrice"`
	Seats        int    `validate:"min=0"`
	Available    bool
	Sort         string `validate:"omitempty,oneof=price_asc price_desc rating newest"`
	Page         int    `validate:"min=0"`
	Limit        int    `validate:"min=0"`
}

// Filter переносит параметры в фильтр хранилища.
func (q Query) Filter() models.CarFilter {
	return models.CarFilter{
		Query:         q.Q,
		Brand:         q.Brand,
		FuelType:      q.FuelType,
		Transmission:  q.Transmission,
		City:          q.City,
		MinPrice:      q.MinPrice,
		MaxPrice:      q.MaxPrice,
		MinSeats:      q.Seats,
		OnlyAvailable: q.Available,
		Sort:          q.Sort,
	}
}

// ParseQuery читает параметры из URL и валидирует их.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{
		Q:            v.Get("q"),
		Brand:        v.Get("brand"),
		FuelType:     v.Get("fuelType"),
		Transmission: v.Get("transmission"),
		City:         v.Get("city"),
		Sort:         v.Get("sort"),
	}

	ints := []struct {
		name string
		dst  *int
	}{{"seats", &q.Seats}, {"page", &q.Page}, {"limit", &q.Limit}}
	for _, p := range ints {
		if raw := v.Get(p.name); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return q, &request.Error{Message: fmt.Sprintf("parameter %s must be a number", p.name)}
			}
			*p.dst = n
		}
	}
	prices := []struct {
		name string
		dst  *int64
	}{{"minPrice", &q.MinPrice}, {"maxPrice", &q.MaxPrice}}
	for _, p := range prices {
		if raw := v.Get(p.name); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return q, &request.Error{Message: fmt.Sprintf("parameter %s must be a number", p.name)}
			}
			*p.dst = n
		}
	}
	if raw := v.Get("available"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, &request.Error{Message: "parameter available must be true or false"}
		}
		q.Available = b
	}

	return q, request.Validate(q)
}

// Service описывает поиск автомобилей.
type Service interface {
	Search(ctx context.Context, f models.CarFilter, page, limit int) ([]*models.Car, models.Pagination, error)
}

// Handler обрабатывает GET /api/cars/search.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Поиск автомобилей
// @Description Поиск без учета регистра по марке, модели, описанию и городу с фильтрами и сортировкой.
// @Tags Cars
// @Produce json
// @Param q query string false "Строка поиска"
// @Param fuelType query string false "benzin, dizel, elektr, gibrid"
// @Param transmission query string false "manual, avtomat"
// @Param sort query string false "price_asc, price_desc, rating, newest"
// @Param page query int false "Страница"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /cars/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.search"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	cars, page, err := h.service.Search(r.Context(), q.Filter(), q.Page, q.Limit)
	if err != nil {
		log.Error("failed to search cars", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusOK, "OK", map[string]any{
		"cars":       cars,
		"pagination": page,
	})
}
