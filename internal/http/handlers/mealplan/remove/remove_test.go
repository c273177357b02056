package remove

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/surchef/internal/http/middlewarectx"
	"github.com/magabrotheeeer/surchef/internal/models"
)

// MockService реализует интерфейс remove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное удаление",
			id:   "m1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "u1", "m1").Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "чужое или несуществующее блюдо",
			id:   "m2",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "u1", "m2").Return(models.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodDelete, "/meal-plans/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.UserID, "u1")
			rec := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			} else {
				assert.Empty(t, rec.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}
