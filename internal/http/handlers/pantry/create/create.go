// Package create реализует HTTP-обработчик добавления продукта в кладовую.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/surchef/internal/http/middlewarectx"
	"github.com/magabrotheeeer/surchef/internal/http/response"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/models"
)

// Request — новый продукт. Quantity по умолчанию "1".
type Request struct {
	Name     string `json:"name" validate:"required"`
	Quantity string `json:"quantity,omitempty"`
}

// Service добавляет продукт.
type Service interface {
	Create(ctx context.Context, userID, name, quantity string) (models.PantryItem, error)
}

// Handler обрабатывает POST /pantry-items.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Добавить продукт
// @Tags Pantry
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Продукт"
// @Success 201 {object} models.PantryItem
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /pantry-items [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pantry.create"
	log := sl.ForRequest(r.Context(), h.log, op)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		response.Fail(w, r, models.ErrUnauthorized)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	item, err := h.service.Create(r.Context(), userID, req.Name, req.Quantity)
	if err != nil {
		log.Error("failed to create pantry item", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("pantry item created", slog.String("id", item.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}
