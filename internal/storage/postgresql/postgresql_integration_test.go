package postgresql

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/surchef/internal/migrations"
	"github.com/magabrotheeeer/surchef/internal/models"
)

func setupTestDatabase(t *testing.T) *Storage {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("surchef"),
		postgres.WithUsername("surchef"),
		postgres.WithPassword("access-key"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Ключ доступа передаётся отдельно, как в конфигурации сервиса.
	u, err := url.Parse(dsn)
	require.NoError(t, err)
	u.User = url.User("surchef")

	storage, err := New(ctx, u.String(), "access-key")
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	require.NoError(t, migrations.Run(storage.DB))
	return storage
}

func createUser(t *testing.T, s *Storage, email string) models.User {
	t.Helper()
	u := models.User{
		ID:           uuid.NewString(),
		Name:         "Test",
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestStorage_Users(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	u := createUser(t, s, "ada@example.com")

	err := s.CreateUser(ctx, models.User{ID: uuid.NewString(), Name: "Eve", Email: "ADA@example.com", PasswordHash: "h", CreatedAt: time.Now()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDuplicateAccount))

	got, err := s.GetUserByEmail(ctx, "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	_, err = s.GetUserByID(ctx, "not-a-uuid")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestStorage_DashboardRoundTrip(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()
	u := createUser(t, s, "cook@example.com")

	state, err := s.ReadDashboard(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDashboard(), state)

	items := []models.PantryItem{{Name: "eggs"}, {Name: "flour", Quantity: "2kg"}}
	meals := []models.MealPlanEntry{{Day: "Monday", MealType: "dinner", Title: "Pasta", Calories: 650}}
	written, err := s.WriteDashboardPatch(ctx, u.ID, models.DashboardPatch{PantryItems: &items, MealPlan: &meals}, time.Now())
	require.NoError(t, err)

	nutrition := models.Nutrition{Goal: 1900, Consumed: 350}
	written, err = s.WriteDashboardPatch(ctx, u.ID, models.DashboardPatch{Nutrition: &nutrition}, time.Now())
	require.NoError(t, err)
	assert.Len(t, written.PantryItems, 2)
	assert.Len(t, written.MealPlan, 1)

	read, err := s.ReadDashboard(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, written, read)

	again, err := s.WriteDashboardPatch(ctx, u.ID, models.DashboardPatch{PantryItems: &items, MealPlan: &meals}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, read, again)
}

func TestStorage_RecordsOwnership(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()
	owner := createUser(t, s, "owner@example.com")
	intruder := createUser(t, s, "intruder@example.com")

	item := models.PantryItem{ID: uuid.NewString(), UserID: owner.ID, Name: "milk", Quantity: "1", CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	require.NoError(t, s.CreatePantryItem(ctx, item))
	entry := models.MealPlanEntry{ID: uuid.NewString(), UserID: owner.ID, Day: "Sunday", MealType: "breakfast", Title: "Oats", Calories: 300, CreatedAt: item.CreatedAt}
	require.NoError(t, s.CreateMealPlan(ctx, entry))

	err := s.DeletePantryItem(ctx, intruder.ID, item.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	err = s.DeleteMealPlan(ctx, intruder.ID, entry.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	items, err := s.ListPantryItems(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.PantryItem{item}, items)

	require.NoError(t, s.DeletePantryItem(ctx, owner.ID, item.ID))
	require.NoError(t, s.DeleteMealPlan(ctx, owner.ID, entry.ID))

	meals, err := s.ListMealPlans(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestNew_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	s, err := New(ctx, "postgres://app@127.0.0.1:1/surchef?sslmode=disable&connect_timeout=1", "key")
	assert.Nil(t, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrRemoteUnavailable))
}
