package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/surchef/internal/models"
)

func TestClient_LoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			assert.Equal(t, http.MethodPost, r.Method)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ada@example.com", body["email"])
			_, _ = io.WriteString(w, `{"token":"tok-1","user":{"id":"u1","name":"Ada","email":"ada@example.com"}}`)
		case "/api/me":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			_, _ = io.WriteString(w, `{"id":"u1","name":"Ada","email":"ada@example.com"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL+"/api", time.Second)
	resp, err := c.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "tok-1", c.Token())

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", me.ID)

	c.Logout()
	assert.Empty(t, c.Token())
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "validation", status: http.StatusBadRequest, body: `{"status":"Error","error":"bad"}`, want: models.ErrValidation},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"status":"Error","error":"unauthorized"}`, want: models.ErrUnauthorized},
		{name: "not found", status: http.StatusNotFound, body: `{"status":"Error","error":"not found"}`, want: models.ErrNotFound},
		{name: "remote down", status: http.StatusServiceUnavailable, body: ``, want: models.ErrRemoteUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			t.Cleanup(srv.Close)

			c := New(srv.URL, time.Second)
			_, err := c.ReadDashboard(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestClient_LoginInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":"Error","error":"invalid credentials"}`)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Second)
	_, err := c.Login(context.Background(), "a@b.c", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidCredentials))
	assert.Empty(t, c.Token())
}

func TestClient_WritePatchSendsOnlyPresentFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Contains(t, raw, "nutrition")
		assert.NotContains(t, raw, "pantryItems")
		assert.NotContains(t, raw, "mealPlan")
		_, _ = io.WriteString(w, `{"pantryItems":[],"mealPlan":[],"nutrition":{"goal":1500,"consumed":0}}`)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Second)
	state, err := c.WritePatch(context.Background(), models.DashboardPatch{Nutrition: &models.Nutrition{Goal: 1500}})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, state.Nutrition.Goal)
}

func TestClient_DeleteNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pantry-items/abc", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Second)
	assert.NoError(t, c.DeletePantryItem(context.Background(), "abc"))
}
