// Package mealplan реализует CRUD записей плана питания.
package mealplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/surchef/internal/models"
)

// Repository описывает операции хранилища с планом питания.
type Repository interface {
	ListMealPlans(ctx context.Context, userID string) ([]models.MealPlanEntry, error)
	CreateMealPlan(ctx context.Context, entry models.MealPlanEntry) error
	DeleteMealPlan(ctx context.Context, userID, id string) error
}

// NewEntry — данные нового блюда. Calories == nil означает значение по умолчанию.
type NewEntry struct {
	Day      string
	MealType string
	Title    string
	Calories *int
}

// Service управляет планом питания.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService создаёт сервис плана питания.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List возвращает план питания пользователя.
func (s *Service) List(ctx context.Context, userID string) ([]models.MealPlanEntry, error) {
	const op = "services.mealplan.List"
	entries, err := s.repo.ListMealPlans(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

// Create добавляет блюдо в план.
func (s *Service) Create(ctx context.Context, userID string, in NewEntry) (models.MealPlanEntry, error) {
	const op = "services.mealplan.Create"

	entry := models.MealPlanEntry{
		ID:       uuid.NewString(),
		UserID:   userID,
		Day:      strings.TrimSpace(in.Day),
		MealType: strings.TrimSpace(in.MealType),
		Title:    strings.TrimSpace(in.Title),
		Calories: models.DefaultMealCalories,
	}
	if in.Calories != nil {
		entry.Calories = *in.Calories
	}
	switch {
	case entry.Day == "" || entry.MealType == "" || entry.Title == "":
		return models.MealPlanEntry{}, fmt.Errorf("%s: %w: day, mealType and title are required", op, models.ErrValidation)
	case entry.Calories < 0:
		return models.MealPlanEntry{}, fmt.Errorf("%s: %w: calories must not be negative", op, models.ErrValidation)
	}
	entry.CreatedAt = s.now().UTC().Truncate(time.Microsecond)

	if err := s.repo.CreateMealPlan(ctx, entry); err != nil {
		return models.MealPlanEntry{}, fmt.Errorf("%s: %w", op, err)
	}
	return entry, nil
}

// Delete удаляет блюдо пользователя.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	const op = "services.mealplan.Delete"
	if err := s.repo.DeleteMealPlan(ctx, userID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
