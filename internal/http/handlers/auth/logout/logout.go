// Package logout реализует выход: удаляет cookie сессии. Токен на сервере не хранится.
package logout

import (
	"net/http"

	"github.com/magabrotheeeer/car-rental/internal/http/middlewarectx"
	"github.com/magabrotheeeer/car-rental/internal/http/response"
)

// Handler обрабатывает выход.
type Handler struct {
	secure bool
}

// New создает Handler.
func New(secure bool) *Handler {
	return &Handler{secure: secure}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middlewarectx.ClearSessionCookie(w, h.secure)
	response.OK(w, r, http.StatusOK, "Logged out", nil)
}
