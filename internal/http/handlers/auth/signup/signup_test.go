package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/surchef/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Signup(ctx context.Context, name, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, name, email, password)
	user, _ := args.Get(1).(*models.User)
	return args.String(0), user, args.Error(2)
}

func TestSignupHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(m *ServiceMock)
		wantStatusCode int
		wantBody       string
	}{
		{
			name: "created",
			body: `{"name":"Ada","email":"Ada@X.com","password":"pw"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Signup", mock.Anything, "Ada", "Ada@X.com", "pw").
					Return("tok", &models.User{ID: "u1", Name: "Ada", Email: "ada@x.com"}, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
			wantBody:       `"token":"tok"`,
		},
		{
			name:           "missing name",
			body:           `{"email":"a@x.com","password":"pw"}`,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `field Name is a required field`,
		},
		{
			name: "duplicate email",
			body: `{"name":"Ada","email":"ada@x.com","password":"pw"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Signup", mock.Anything, "Ada", "ada@x.com", "pw").
					Return("", nil, models.ErrDuplicateAccount).Once()
			},
			wantStatusCode: http.StatusConflict,
			wantBody:       `{"status":"Error","error":"email already exists"}`,
		},
		{
			name: "validation from service",
			body: `{"name":" ","email":"ada@x.com","password":"pw"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Signup", mock.Anything, " ", "ada@x.com", "pw").
					Return("", nil, models.ErrValidation).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       `validation error`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			if tt.wantStatusCode == http.StatusCreated {
				var resp Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "ada@x.com", resp.User.Email)
				assert.NotContains(t, rec.Body.String(), "password")
			}
			svc.AssertExpectations(t)
		})
	}
}
