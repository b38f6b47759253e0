// Package read реализует HTTP-обработчик получения профиля текущего пользователя.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/auth"
)

// Service описывает чтение профиля.
type Service interface {
	Profile(ctx context.Context, userID string) (*models.User, error)
}

// Handler обрабатывает GET /api/profile.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Unauthorized(w, r)
		return
	}

	user, err := h.service.Profile(r.Context(), id.UserID)
	if errors.Is(err, services.ErrUserNotFound) {
		response.NotFound(w, r, "User not found")
		return
	}
	if err != nil {
		log.Error("failed to read profile", sl.Err(err))
		response.Internal(w, r)
		return
	}

	response.OK(w, r, http.StatusOK, "OK", map[string]any{"user": user.Public()})
}
