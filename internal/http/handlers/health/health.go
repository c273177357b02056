// Package health реализует HTTP-обработчик проверки работоспособности.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/surchef/internal/provider"
)

// Source сообщает, какое хранилище выбрано при старте.
type Source interface {
	Descriptor() provider.Descriptor
}

// Response — признак работы и описание хранилища.
type Response struct {
	OK       bool                `json:"ok"`
	Provider provider.Descriptor `json:"provider"`
}

// Handler обрабатывает GET /health.
type Handler struct {
	source Source
}

// New создает новый экземпляр Handler.
func New(source Source) *Handler {
	return &Handler{source: source}
}

// ServeHTTP godoc
// @Summary Проверка работоспособности
// @Tags Health
// @Produce  json
// @Success 200 {object} Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Response{OK: true, Provider: h.source.Descriptor()})
}
