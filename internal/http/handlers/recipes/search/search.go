// Package search реализует HTTP-обработчик поиска рецептов по строке.
package search

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/recipes"
)

// Catalog ищет рецепты во внешнем каталоге.
type Catalog interface {
	Search(ctx context.Context, query string) []recipes.Recipe
}

// Handler обрабатывает GET /recipes/search.
type Handler struct {
	log     *slog.Logger
	catalog Catalog
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, catalog Catalog) *Handler {
	return &Handler{log: log, catalog: catalog}
}

// ServeHTTP godoc
// @Summary Поиск рецептов
// @Tags Recipes
// @Produce  json
// @Security BearerAuth
// @Param query query string true "Строка поиска"
// @Success 200 {array} recipes.Recipe
// @Failure 401 {object} response.ErrorResponse
// @Router /recipes/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipes.search"
	log := sl.ForRequest(r.Context(), h.log, op)

	query := r.URL.Query().Get("query")
	results := h.catalog.Search(r.Context(), query)
	log.Debug("recipes searched", slog.Int("count", len(results)))
	render.JSON(w, r, results)
}
