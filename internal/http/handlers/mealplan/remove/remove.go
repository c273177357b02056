// Package remove реализует HTTP-обработчик удаления блюда из плана.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/surchef/internal/http/middlewarectx"
	"github.com/magabrotheeeer/surchef/internal/http/response"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/models"
)

// Service удаляет блюдо пользователя.
type Service interface {
	Delete(ctx context.Context, userID, id string) error
}

// Handler обрабатывает DELETE /meal-plans/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить блюдо
// @Tags MealPlan
// @Security BearerAuth
// @Param id path string true "ID блюда"
// @Success 204
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Нет такого блюда у пользователя"
// @Router /meal-plans/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.mealplan.remove"
	log := sl.ForRequest(r.Context(), h.log, op)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		response.Fail(w, r, models.ErrUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		log.Warn("failed to delete meal plan entry", slog.String("id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("meal plan entry deleted", slog.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}
