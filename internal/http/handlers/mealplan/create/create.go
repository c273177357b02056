// Package create реализует HTTP-обработчик добавления блюда в план питания.
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
	"github.com/magabrotheeeer/surchef/internal/services/mealplan"
)

// Request — новое блюдо. Если calories не передан, используется 500.
type Request struct {
	Day      string `json:"day" validate:"required"`
	MealType string `json:"mealType" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Calories *int   `json:"calories,omitempty" validate:"omitempty,min=0"`
}

// Service добавляет блюдо в план.
type Service interface {
	Create(ctx context.Context, userID string, in mealplan.NewEntry) (models.MealPlanEntry, error)
}

// Handler обрабатывает POST /meal-plans.
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
// @Summary Добавить блюдо в план
// @Tags MealPlan
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Блюдо"
// @Success 201 {object} models.MealPlanEntry
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /meal-plans [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.mealplan.create"
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

	entry, err := h.service.Create(r.Context(), userID, mealplan.NewEntry{
		Day:      req.Day,
		MealType: req.MealType,
		Title:    req.Title,
		Calories: req.Calories,
	})
	if err != nil {
		log.Error("failed to create meal plan entry", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("meal plan entry created", slog.String("id", entry.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, entry)
}
