// Package byingredients реализует HTTP-обработчик подбора рецептов по продуктам.
package byingredients

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/recipes"
)

// Catalog подбирает рецепты по списку продуктов.
type Catalog interface {
	SearchByIngredients(ctx context.Context, ingredients []string) []recipes.Recipe
}

// Handler обрабатывает GET /recipes/by-ingredients.
type Handler struct {
	log     *slog.Logger
	catalog Catalog
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, catalog Catalog) *Handler {
	return &Handler{log: log, catalog: catalog}
}

// ServeHTTP godoc
// @Summary Рецепты из имеющихся продуктов
// @Tags Recipes
// @Produce  json
// @Security BearerAuth
// @Param ingredients query string true "Продукты через запятую"
// @Success 200 {array} recipes.Recipe
// @Failure 401 {object} response.ErrorResponse
// @Router /recipes/by-ingredients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipes.byingredients"
	log := sl.ForRequest(r.Context(), h.log, op)

	raw := r.URL.Query().Get("ingredients")
	var ingredients []string
	if raw != "" {
		ingredients = strings.Split(raw, ",")
	}
	results := h.catalog.SearchByIngredients(r.Context(), ingredients)
	log.Debug("recipes matched", slog.Int("count", len(results)))
	render.JSON(w, r, results)
}
