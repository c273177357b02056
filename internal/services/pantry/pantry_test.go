package pantry_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/surchef/internal/models"
	"github.com/magabrotheeeer/surchef/internal/services/pantry"
	"github.com/magabrotheeeer/surchef/internal/storage/filedb"
)

func newService(t *testing.T) *pantry.Service {
	t.Helper()
	store, err := filedb.New(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return pantry.NewService(store)
}

func TestService_CreateDefaults(t *testing.T) {
	svc := newService(t)

	item, err := svc.Create(context.Background(), "u1", "  eggs ", "")
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "eggs", item.Name)
	assert.Equal(t, "1", item.Quantity)
	assert.Equal(t, "u1", item.UserID)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestService_CreateRequiresName(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), "u1", " ", "2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestService_ListAndDeleteOwnership(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, "owner", "rice", "1kg")
	require.NoError(t, err)

	others, err := svc.List(ctx, "intruder")
	require.NoError(t, err)
	assert.Empty(t, others)

	err = svc.Delete(ctx, "intruder", item.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	items, err := svc.List(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, []models.PantryItem{item}, items)

	require.NoError(t, svc.Delete(ctx, "owner", item.ID))
	err = svc.Delete(ctx, "owner", item.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
