// Package response содержит вспомогательные типы и функции для формирования
// JSON‑ответов об ошибках и сопоставления ошибок бизнес-логики с HTTP-статусами.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/surchef/internal/models"
)

// ErrorResponse описывает JSON‑ответ с ошибкой.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// StatusError — значение статуса для ответа с ошибкой.
const StatusError = "Error"

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must not be negative", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

// FromError сопоставляет ошибку бизнес-логики со статусом и текстом ответа.
// Неизвестные ошибки дают 500 без подробностей.
func FromError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, models.ErrValidation):
		msg := err.Error()
		if i := strings.Index(msg, models.ErrValidation.Error()); i >= 0 {
			msg = msg[i:]
		}
		return http.StatusBadRequest, Error(msg)
	case errors.Is(err, models.ErrDuplicateAccount):
		return http.StatusConflict, Error(models.ErrDuplicateAccount.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, Error(models.ErrInvalidCredentials.Error())
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, Error(models.ErrUnauthorized.Error())
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, Error(models.ErrNotFound.Error())
	case errors.Is(err, models.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable, Error(models.ErrRemoteUnavailable.Error())
	default:
		return http.StatusInternalServerError, Error("internal error")
	}
}

// Fail пишет ответ с ошибкой, выбирая статус через FromError.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := FromError(err)
	render.Status(r, status)
	render.JSON(w, r, body)
}
