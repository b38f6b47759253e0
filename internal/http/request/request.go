// Package request декодирует и валидирует тела запросов.
// Неизвестные поля и поля с неверным типом отклоняются.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/car-rental/internal/http/response"
)

const maxBodyBytes = 1 << 20

// Error ошибка разбора тела, сообщение пригодно для показа клиенту.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var validate = validator.New()

// Decode читает JSON в dst и проверяет теги validate.
// Любая ошибка возвращается как *Error.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return &Error{Message: "request body is empty"}
		case errors.As(err, &typeErr):
			return &Error{Message: fmt.Sprintf("field %s has invalid type", typeErr.Field)}
		default:
			return &Error{Message: "invalid request body"}
		}
	}
	if dec.More() {
		return &Error{Message: "request body must contain a single JSON object"}
	}
	return Validate(dst)
}

// Validate проверяет структуру по тегам validate.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &Error{Message: response.ValidationMessage(verrs)}
		}
		return &Error{Message: "invalid request"}
	}
	return nil
}
