package postgresql

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/surchef/internal/models"
)

// ListPantryItems возвращает продукты пользователя в порядке добавления.
func (s *Storage) ListPantryItems(ctx context.Context, userID string) ([]models.PantryItem, error) {
	const op = "storage.postgresql.ListPantryItems"
	items, err := listPantryItems(ctx, s.DB, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return items, nil
}

// CreatePantryItem сохраняет продукт пользователя.
func (s *Storage) CreatePantryItem(ctx context.Context, item models.PantryItem) error {
	const op = "storage.postgresql.CreatePantryItem"
	if err := insertPantryItem(ctx, s.DB, item); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

// DeletePantryItem удаляет продукт, принадлежащий пользователю.
func (s *Storage) DeletePantryItem(ctx context.Context, userID, id string) error {
	const op = "storage.postgresql.DeletePantryItem"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM pantry_items WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

// ListMealPlans возвращает блюда пользователя в порядке добавления.
func (s *Storage) ListMealPlans(ctx context.Context, userID string) ([]models.MealPlanEntry, error) {
	const op = "storage.postgresql.ListMealPlans"
	entries, err := listMealPlans(ctx, s.DB, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return entries, nil
}

// CreateMealPlan сохраняет блюдо пользователя.
func (s *Storage) CreateMealPlan(ctx context.Context, entry models.MealPlanEntry) error {
	const op = "storage.postgresql.CreateMealPlan"
	if err := insertMealPlan(ctx, s.DB, entry); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

// DeleteMealPlan удаляет блюдо, принадлежащее пользователю.
func (s *Storage) DeleteMealPlan(ctx context.Context, userID, id string) error {
	const op = "storage.postgresql.DeleteMealPlan"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM meal_plans WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

func listPantryItems(ctx context.Context, q querier, userID string) ([]models.PantryItem, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, user_id, name, quantity, created_at
		FROM pantry_items
		WHERE user_id = $1
		ORDER BY seq`, userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	items := []models.PantryItem{}
	for rows.Next() {
		var item models.PantryItem
		if err = rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Quantity, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.CreatedAt = item.CreatedAt.UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

func listMealPlans(ctx context.Context, q querier, userID string) ([]models.MealPlanEntry, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, user_id, day, meal_type, title, calories, created_at
		FROM meal_plans
		WHERE user_id = $1
		ORDER BY seq`, userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := []models.MealPlanEntry{}
	for rows.Next() {
		var e models.MealPlanEntry
		if err = rows.Scan(&e.ID, &e.UserID, &e.Day, &e.MealType, &e.Title, &e.Calories, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func insertPantryItem(ctx context.Context, q querier, item models.PantryItem) error {
	_, err := q.ExecContext(ctx, `INSERT INTO pantry_items (user_id, id, name, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		item.UserID, item.ID, item.Name, item.Quantity, item.CreatedAt)
	return err
}

func insertMealPlan(ctx context.Context, q querier, e models.MealPlanEntry) error {
	_, err := q.ExecContext(ctx, `INSERT INTO meal_plans (user_id, id, day, meal_type, title, calories, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.UserID, e.ID, e.Day, e.MealType, e.Title, e.Calories, e.CreatedAt)
	return err
}
