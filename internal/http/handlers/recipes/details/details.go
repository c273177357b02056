// Package details реализует HTTP-обработчик карточки рецепта.
package details

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/surchef/internal/http/response"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/recipes"
)

// Catalog возвращает подробности рецепта или nil.
type Catalog interface {
	Details(ctx context.Context, id int) *recipes.Details
}

// Handler обрабатывает GET /recipes/{id}.
type Handler struct {
	log     *slog.Logger
	catalog Catalog
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, catalog Catalog) *Handler {
	return &Handler{log: log, catalog: catalog}
}

// ServeHTTP godoc
// @Summary Подробности рецепта
// @Tags Recipes
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID рецепта"
// @Success 200 {object} recipes.Details
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден или каталог недоступен"
// @Router /recipes/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipes.details"
	log := sl.ForRequest(r.Context(), h.log, op)

	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		log.Warn("invalid recipe id", slog.String("id", raw))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid recipe id"))
		return
	}

	d := h.catalog.Details(r.Context(), id)
	if d == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("recipe not found"))
		return
	}
	render.JSON(w, r, d)
}
