package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/surchef/internal/models"
)

// querier — общее подмножество *sql.DB и *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReadDashboard собирает состояние дашборда. Отсутствие профиля даёт цели по умолчанию.
func (s *Storage) ReadDashboard(ctx context.Context, userID string) (models.DashboardState, error) {
	const op = "storage.postgresql.ReadDashboard"

	state, err := readState(ctx, s.DB, userID)
	if err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, classify(err))
	}
	return state, nil
}

// WriteDashboardPatch применяет патч в транзакции: блокирует профиль
// пользователя, читает текущее состояние, заменяет изменённые коллекции и
// обновляет цели по калориям.
func (s *Storage) WriteDashboardPatch(ctx context.Context, userID string, patch models.DashboardPatch, now time.Time) (models.DashboardState, error) {
	const op = "storage.postgresql.WriteDashboardPatch"

	if err := patch.Validate(); err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, classify(err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `INSERT INTO profiles (user_id, nutrition_goal, nutrition_consumed)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id) DO NOTHING`, userID, models.DefaultNutritionGoal)
	if err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, classify(err))
	}
	var locked string
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM profiles WHERE user_id = $1 FOR UPDATE`, userID).Scan(&locked)
	if err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, classify(err))
	}

	current, err := readState(ctx, tx, userID)
	if err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, classify(err))
	}
	next, err := models.ApplyPatch(current, patch, userID, now)
	if err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, err)
	}

	if patch.PantryItems != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM pantry_items WHERE user_id = $1`, userID); err != nil {
			return models.DashboardState{}, fmt.Errorf("%s: %w", op, classify(err))
		}
		for _, item := range next.PantryItems {
			if err = insertPantryItem(ctx, tx, item); err != nil {
				return models.DashboardState{}, fmt.Errorf("%s: %w", op, classify(err))
			}
		}
	}
	if patch.MealPlan != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM meal_plans WHERE user_id = $1`, userID); err != nil {
			return models.DashboardState{}, fmt.Errorf("%s: %w", op, classify(err))
		}
		for _, entry := range next.MealPlan {
			if err = insertMealPlan(ctx, tx, entry); err != nil {
				return models.DashboardState{}, fmt.Errorf("%s: %w", op, classify(err))
			}
		}
	}
	if patch.Nutrition != nil {
		_, err = tx.ExecContext(ctx, `INSERT INTO profiles (user_id, nutrition_goal, nutrition_consumed, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE
			SET nutrition_goal = EXCLUDED.nutrition_goal,
			    nutrition_consumed = EXCLUDED.nutrition_consumed,
			    updated_at = EXCLUDED.updated_at`,
			userID, next.Nutrition.Goal, next.Nutrition.Consumed, now.UTC())
		if err != nil {
			return models.DashboardState{}, fmt.Errorf("%s: %w", op, classify(err))
		}
	}

	if err = tx.Commit(); err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, classify(err))
	}
	return next, nil
}

func readState(ctx context.Context, q querier, userID string) (models.DashboardState, error) {
	state := models.DefaultDashboard()

	err := q.QueryRowContext(ctx, `SELECT nutrition_goal, nutrition_consumed FROM profiles WHERE user_id = $1`, userID).
		Scan(&state.Nutrition.Goal, &state.Nutrition.Consumed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.DashboardState{}, err
	}

	items, err := listPantryItems(ctx, q, userID)
	if err != nil {
		return models.DashboardState{}, err
	}
	state.PantryItems = items

	meals, err := listMealPlans(ctx, q, userID)
	if err != nil {
		return models.DashboardState{}, err
	}
	state.MealPlan = meals
	return state, nil
}
