// Package pantry реализует CRUD продуктов кладовой пользователя.
package pantry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/surchef/internal/models"
)

// Repository описывает операции хранилища с продуктами.
type Repository interface {
	ListPantryItems(ctx context.Context, userID string) ([]models.PantryItem, error)
	CreatePantryItem(ctx context.Context, item models.PantryItem) error
	DeletePantryItem(ctx context.Context, userID, id string) error
}

// Service управляет продуктами кладовой.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService создаёт сервис кладовой.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List возвращает продукты пользователя.
func (s *Service) List(ctx context.Context, userID string) ([]models.PantryItem, error) {
	const op = "services.pantry.List"
	items, err := s.repo.ListPantryItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Create добавляет продукт. Пустое количество заменяется на "1".
func (s *Service) Create(ctx context.Context, userID, name, quantity string) (models.PantryItem, error) {
	const op = "services.pantry.Create"

	name = strings.TrimSpace(name)
	if name == "" {
		return models.PantryItem{}, fmt.Errorf("%s: %w: name is required", op, models.ErrValidation)
	}
	quantity = strings.TrimSpace(quantity)
	if quantity == "" {
		quantity = models.DefaultPantryQuantity
	}
	item := models.PantryItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Quantity:  quantity,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.CreatePantryItem(ctx, item); err != nil {
		return models.PantryItem{}, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// Delete удаляет продукт пользователя. Чужой или несуществующий продукт
// даёт models.ErrNotFound.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	const op = "services.pantry.Delete"
	if err := s.repo.DeletePantryItem(ctx, userID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
