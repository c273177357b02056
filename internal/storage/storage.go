// Package storage описывает общий контракт хранилищ планировщика питания.
// Реализации: локальный JSON-файл (filedb) и удалённый PostgreSQL (postgresql).
package storage

import (
	"context"
	"time"

	"github.com/magabrotheeeer/surchef/internal/models"
)

// Store — хранилище учётных записей, дашбордов и записей пользователей.
//
// Все операции с записями фильтруются по userID. Чтение дашборда без
// сохранённых данных возвращает models.DefaultDashboard().
type Store interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	ReadDashboard(ctx context.Context, userID string) (models.DashboardState, error)
	WriteDashboardPatch(ctx context.Context, userID string, patch models.DashboardPatch, now time.Time) (models.DashboardState, error)

	ListPantryItems(ctx context.Context, userID string) ([]models.PantryItem, error)
	CreatePantryItem(ctx context.Context, item models.PantryItem) error
	DeletePantryItem(ctx context.Context, userID, id string) error

	ListMealPlans(ctx context.Context, userID string) ([]models.MealPlanEntry, error)
	CreateMealPlan(ctx context.Context, entry models.MealPlanEntry) error
	DeleteMealPlan(ctx context.Context, userID, id string) error

	Ping(ctx context.Context) error
	Close() error
}
