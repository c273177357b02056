// Package patch реализует HTTP-обработчик частичного обновления дашборда.
package patch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/surchef/internal/http/middlewarectx"
	"github.com/magabrotheeeer/surchef/internal/http/response"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/models"
)

// MaxBodyBytes ограничивает размер тела запроса.
const MaxBodyBytes = 1 << 20

// Service применяет патч и возвращает новое состояние.
type Service interface {
	WritePatch(ctx context.Context, userID string, patch models.DashboardPatch) (models.DashboardState, error)
}

// Handler обрабатывает PATCH /dashboard.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить дашборд
// @Description Поверхностное слияние: переданные поля заменяются целиком, остальные не меняются.
// @Tags Dashboard
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DashboardPatch true "Изменённые поля"
// @Success 200 {object} models.DashboardState
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse "Слишком большое тело запроса"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /dashboard [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.patch"
	log := sl.ForRequest(r.Context(), h.log, op)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		response.Fail(w, r, models.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var p models.DashboardPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("request body too large", slog.Int64("limit", tooLarge.Limit))
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, response.Error("request body too large"))
			return
		}
		log.Warn("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	state, err := h.service.WritePatch(r.Context(), userID, p)
	if err != nil {
		log.Error("failed to write dashboard patch", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, state)
}
