// Package signup реализует HTTP-обработчик регистрации пользователя.
//
// Обработчик декодирует JSON, проверяет обязательные поля и делегирует
// регистрацию сервису. При успехе возвращает 201 с токеном и публичными
// данными пользователя. Тело запроса и пароль не логируются.
package signup

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

// Request — входные данные регистрации.
type Request struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response — токен и публичные данные нового пользователя.
type Response struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Service описывает регистрацию с выпуском токена.
type Service interface {
	Signup(ctx context.Context, name, email, password string) (string, *models.User, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация пользователя
// @Description Создаёт учётную запись и возвращает сессионный токен.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"
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

	token, user, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		log.Error("signup failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("user signed up", slog.String("user_id", user.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{Token: token, User: user.Public()})
}
