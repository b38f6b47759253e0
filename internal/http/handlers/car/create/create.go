// Package create реализует HTTP-обработчик добавления автомобиля администратором.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/http/request"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

// Request описание автомобиля. Используется и при изменении.
type Request struct {
	Brand        string   `json:"brand" validate:"required,max=50"`
	Model        string   `json:"model" validate:"required,max=50"`
	Year         int      `json:"year" validate:"required,min=1950,max=2100"`
	Color        string   `json:"color" validate:"omitempty,max=30"`
	FuelType     string   `json:"fuelType" validate:"required,oneof=benzin dizel elektr gibrid"`
	Transmission string   `json:"transmission" validate:"required,oneof=manual avtomat"`
	Seats        int      `json:"seats" validate:"required,min=1,max=60"`
	PricePerDay  int64    `json:"pricePerDay" validate:"required,min=1"`
	Images       []string `json:"images" validate:"omitempty,dive,url"`
	Features     []string `json:"features" validate:"omitempty,dive,max=100"`
	Description  string   `json:"description" validate:"omitempty,max=2000"`
	City         string   `json:"city" validate:"required,max=100"`
	Address      string   `json:"address" validate:"omitempty,max=300"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	IsAvailable  *bool    `json:"isAvailable"`
}

// Car переносит запрос в модель. Без isAvailable автомобиль доступен.
func (r Request) Car() models.Car {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	features := r.Features
	if features == nil {
		features = []string{}
	}
	return models.Car{
		Brand:        r.Brand,
		Model:        r.Model,
		Year:         r.Year,
		Color:        r.Color,
		FuelType:     r.FuelType,
		Transmission: r.Transmission,
		Seats:        r.Seats,
		PricePerDay:  r.PricePerDay,
		Images:       images,
		Features:     features,
		Description:  r.Description,
		Location: models.Location{
			City:      r.City,
			Address:   r.Address,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		},
		IsAvailable: available,
	}
}

// Service описывает добавление автомобиля.
type Service interface {
	Create(ctx context.Context, car models.Car) (*models.Car, error)
}

// Handler обрабатывает POST /api/admin/cars.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Добавление автомобиля
// @Tags Cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Автомобиль"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/cars [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.car.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := request.Decode(r, &req); err != nil {
		log.Info("invalid request", sl.Err(err))
		response.BadRequest(w, r, err.Error())
		return
	}

	car := req.Car()
	if id, ok := middlewarectx.IdentityFrom(r.Context()); ok {
		car.OwnerID = &id.UserID
	}

	created, err := h.service.Create(r.Context(), car)
	if err != nil {
		log.Error("failed to create car", sl.Err(err))
		response.Internal(w, r)
		return
	}
	response.OK(w, r, http.StatusCreated, "Car created", map[string]any{"car": created})
}
