// Package featured реализует HTTP-обработчик подборки случайных рецептов.
package featured

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/surchef/internal/recipes"
)

// Catalog возвращает подборку рецептов.
type Catalog interface {
	Featured(ctx context.Context) []recipes.Recipe
}

// Handler обрабатывает GET /recipes/featured.
type Handler struct {
	log     *slog.Logger
	catalog Catalog
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, catalog Catalog) *Handler {
	return &Handler{log: log, catalog: catalog}
}

// ServeHTTP godoc
// @Summary Подборка рецептов
// @Tags Recipes
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} recipes.Recipe
// @Router /recipes/featured [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.catalog.Featured(r.Context()))
}
