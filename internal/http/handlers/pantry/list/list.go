// Package list реализует HTTP-обработчик списка продуктов кладовой.
package list

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

// Service возвращает продукты пользователя.
type Service interface {
	List(ctx context.Context, userID string) ([]models.PantryItem, error)
}

// Handler обрабатывает GET /pantry-items.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список продуктов кладовой
// @Tags Pantry
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.PantryItem
// @Failure 401 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /pantry-items [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pantry.list"
	log := sl.ForRequest(r.Context(), h.log, op)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		response.Fail(w, r, models.ErrUnauthorized)
		return
	}
	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list pantry items", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, items)
}
