// Package read реализует HTTP-обработчик чтения сохранённого дашборда.
package read

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

// Service читает состояние дашборда.
type Service interface {
	Read(ctx context.Context, userID string) (models.DashboardState, error)
}

// Handler обрабатывает GET /dashboard.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Состояние дашборда
// @Description Возвращает кладовую, план питания и цели по калориям. Без сохранённых данных отдаёт значения по умолчанию.
// @Tags Dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.DashboardState
// @Failure 401 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.read"
	log := sl.ForRequest(r.Context(), h.log, op)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		response.Fail(w, r, models.ErrUnauthorized)
		return
	}
	state, err := h.service.Read(r.Context(), userID)
	if err != nil {
		log.Error("failed to read dashboard", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, state)
}
