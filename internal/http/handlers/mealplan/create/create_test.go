package create

import (
	"bytes"
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
	"github.com/magabrotheeeer/surchef/internal/services/mealplan"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, userID string, in mealplan.NewEntry) (models.MealPlanEntry, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(models.MealPlanEntry), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(m *ServiceMock)
		wantStatusCode int
		wantBody       string
	}{
		{
			name: "calories omitted",
			body: `{"day":"Monday","mealType":"dinner","title":"Soup"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, "u1", mock.MatchedBy(func(in mealplan.NewEntry) bool {
					return in.Title == "Soup" && in.Calories == nil
				})).Return(models.MealPlanEntry{ID: "m1", Day: "Monday", MealType: "dinner", Title: "Soup", Calories: 500}, nil)
			},
			wantStatusCode: http.StatusCreated,
			wantBody:       `"calories":500`,
		},
		{
			name: "explicit zero calories",
			body: `{"day":"Monday","mealType":"snack","title":"Tea","calories":0}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, "u1", mock.MatchedBy(func(in mealplan.NewEntry) bool {
					return in.Calories != nil && *in.Calories == 0
				})).Return(models.MealPlanEntry{ID: "m2", Day: "Monday", MealType: "snack", Title: "Tea"}, nil)
			},
			wantStatusCode: http.StatusCreated,
			wantBody:       `"calories":0`,
		},
		{
			name:           "negative calories",
			body:           `{"day":"Monday","mealType":"dinner","title":"Soup","calories":-10}`,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `field Calories must not be negative`,
		},
		{
			name:           "missing title",
			body:           `{"day":"Monday","mealType":"dinner"}`,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `field Title is a required field`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/meal-plans", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, "u1"))
			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
