package list

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/surchef/internal/http/middlewarectx"
	"github.com/magabrotheeeer/surchef/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, userID string) ([]models.MealPlanEntry, error) {
	args := m.Called(ctx, userID)
	entries, _ := args.Get(0).([]models.MealPlanEntry)
	return entries, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("entries of the user", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, "u1").Return([]models.MealPlanEntry{
			{ID: "m1", UserID: "u1", Day: "Monday", MealType: "dinner", Title: "Soup", Calories: 500},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/meal-plans", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, "u1"))
		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"title":"Soup"`)
		assert.Contains(t, rec.Body.String(), `"calories":500`)
		svc.AssertExpectations(t)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, "u1").Return([]models.MealPlanEntry{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/meal-plans", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, "u1"))
		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("no user in context", func(t *testing.T) {
		svc := new(ServiceMock)

		req := httptest.NewRequest(http.MethodGet, "/meal-plans", nil)
		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("storage error", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, "u1").Return(nil, models.ErrRemoteUnavailable)

		req := httptest.NewRequest(http.MethodGet, "/meal-plans", nil)
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, "u1"))
		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
