// Package response содержит единый JSON-конверт ответов HTTP-обработчиков
// и функции для его отправки через go-chi/render.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

// Общие сообщения для ошибок аутентификации и сервера. Причина ошибки клиенту не раскрывается.
const (
	MsgUnauthorized  = "Unauthorized"
	MsgForbidden     = "Forbidden"
	MsgInternalError = "Internal server error"
	MsgNotFound      = "Not found"
)

// Response конверт любого ответа: {success, message, data?, error?}.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"OK"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse конверт ошибки для Swagger-документации.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Unauthorized"`
	Error   string `json:"error,omitempty" example:"invalid request body"`
}

// OK отправляет успешный ответ с данными.
func OK(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	render.Status(r, status)
	render.JSON(w, r, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail отправляет ответ с ошибкой. detail попадает в поле error и может быть пустым.
func Fail(w http.ResponseWriter, r *http.Request, status int, message, detail string) {
	render.Status(r, status)
	render.JSON(w, r, Response{
		Success: false,
		Message: message,
		Error:   detail,
	})
}

// Unauthorized 401 с общим сообщением.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, http.StatusUnauthorized, MsgUnauthorized, "")
}

// Forbidden 403 с общим сообщением.
func Forbidden(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, http.StatusForbidden, MsgForbidden, "")
}

// Internal 500. Причина должна быть залогирована вызывающим.
func Internal(w http.ResponseWriter, r *http.Request) {
	Fail(w, r, http.StatusInternalServerError, MsgInternalError, "")
}

// BadRequest 400 с сообщением для пользователя.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Fail(w, r, http.StatusBadRequest, message, "")
}

// NotFound 404.
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	Fail(w, r, http.StatusNotFound, message, "")
}

// ValidationMessage превращает ошибки валидатора в человекочитаемый текст.
func ValidationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "uuid", "uuid4":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid id", err.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("field %s must have length %s", err.Field(), err.Param()))
		case "gtfield":
			msgs = append(msgs, fmt.Sprintf("field %s must be after %s", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
