// Package me реализует HTTP-обработчик получения текущего пользователя.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/surchef/internal/http/middlewarectx"
	"github.com/magabrotheeeer/surchef/internal/http/response"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/models"
)

// Service возвращает публичные данные пользователя.
type Service interface {
	Me(ctx context.Context, userID string) (*models.PublicUser, error)
}

// Handler обрабатывает GET /me.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.PublicUser
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := sl.ForRequest(r.Context(), h.log, op)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		log.Error("user id missing in context")
		response.Fail(w, r, models.ErrUnauthorized)
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, user)
}
