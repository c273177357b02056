package me

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

func (m *ServiceMock) Me(ctx context.Context, userID string) (*models.PublicUser, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.PublicUser)
	return u, args.Error(1)
}

func TestMeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		userID         string
		setupMock      func(m *ServiceMock)
		wantStatusCode int
		wantBody       string
	}{
		{
			name:   "found",
			userID: "u1",
			setupMock: func(m *ServiceMock) {
				m.On("Me", mock.Anything, "u1").Return(&models.PublicUser{ID: "u1", Name: "Ada", Email: "ada@x.com"}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `{"id":"u1","name":"Ada","email":"ada@x.com"}`,
		},
		{
			name:   "deleted user",
			userID: "u2",
			setupMock: func(m *ServiceMock) {
				m.On("Me", mock.Anything, "u2").Return(nil, models.ErrNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantBody:       `{"status":"Error","error":"not found"}`,
		},
		{
			name:           "no user in context",
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"status":"Error","error":"unauthorized"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.userID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, tt.userID))
			}
			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
