// Package update реализует HTTP-обработчик изменения профиля.
// Меняются только имя и телефон, email и пароль в запросе отклоняются как неизвестные поля.
package update

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
	services "github.com/magabrotheeeer/car-rental/internal/services/auth"
)

// Request изменяемые поля профиля.
type Request struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// Service описывает изменение профиля.
type Service interface {
	UpdateProfile(ctx context.Context, userID, name, phone string) (*models.User, error)
}

// Handler обрабатывает PUT /api/profile.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменение профиля
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Имя и телефон"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"
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
		log.Info("invalid request", sl.Err(err))
		response.BadRequest(w, r, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), id.UserID, req.Name, req.Phone)
	if errors.Is(err, services.ErrUserNotFound) {
		response.NotFound(w, r, "User not found")
		return
	}
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		response.Internal(w, r)
		return
	}

	response.OK(w, r, http.StatusOK, "Profile updated", map[string]any{"user": user.Public()})
}
