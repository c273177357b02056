// Package login реализует HTTP-обработчик входа по email и паролю.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/surchef/internal/http/response"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/models"
)

// Request — учётные данные пользователя.
type Request struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response — токен и публичные данные пользователя.
type Response struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Service описывает проверку учётных данных с выпуском токена.
type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет email и пароль, возвращает сессионный токен на 7 дней.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := sl.ForRequest(r.Context(), h.log, op)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Warn("login failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("login success", slog.String("user_id", user.ID))
	render.JSON(w, r, Response{Token: token, User: user.Public()})
}
