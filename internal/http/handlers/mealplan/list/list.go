// Package list реализует HTTP-обработчик списка блюд плана питания.
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

// Service возвращает план питания пользователя.
type Service interface {
	List(ctx context.Context, userID string) ([]models.MealPlanEntry, error)
}

// Handler обрабатывает GET /meal-plans.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary План питания
// @Tags MealPlan
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.MealPlanEntry
// @Failure 401 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /meal-plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.mealplan.list"
	log := sl.ForRequest(r.Context(), h.log, op)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		response.Fail(w, r, models.ErrUnauthorized)
		return
	}
	entries, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list meal plans", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, entries)
}
