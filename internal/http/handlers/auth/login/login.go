// Package login реализует HTTP-обработчик входа.
//
// При успехе токен сессии выставляется в cookie token и возвращается в теле ответа,
// чтобы клиенты без cookie могли передавать его в заголовке Authorization.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/http/request"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/auth"
)

// Request учетные данные.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service описывает бизнес-логику входа.
type Service interface {
	Login(ctx context.Context, email, rawPassword string) (string, *models.User, error)
}

// Handler обрабатывает вход.
type Handler struct {
	log       *slog.Logger
	service   Service
	cookieTTL time.Duration
	secure    bool
}

// New создает Handler. secure включает флаг Secure у cookie.
func New(log *slog.Logger, service Service, cookieTTL time.Duration, secure bool) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		cookieTTL: cookieTTL,
		secure:    secure,
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет email и пароль, выставляет cookie token и возвращает токен в теле.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
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

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		log.Info("login rejected")
		response.Fail(w, r, http.StatusUnauthorized, "Invalid email or password", "")
		return
	case errors.Is(err, services.ErrInactiveUser):
		response.Fail(w, r, http.StatusForbidden, "Account is disabled", "")
		return
	case err != nil:
		log.Error("login failed", sl.Err(err))
		response.Internal(w, r)
		return
	}

	middlewarectx.SetSessionCookie(w, token, h.cookieTTL, h.secure)
	log.Info("login success", slog.String("user_id", user.ID))
	response.OK(w, r, http.StatusOK, "Logged in", map[string]any{
		"token": token,
		"user":  user.Public(),
	})
}
