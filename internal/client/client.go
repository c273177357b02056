// Package client реализует типизированный HTTP-клиент REST API сервиса.
//
// Клиент хранит токен сессии, полученный при регистрации или входе, и
// передаёт его в заголовке Authorization. Client удовлетворяет
// autosave.Saver, поэтому координатор автосохранения пишет через него.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/surchef/internal/models"
)

// APIError — ответ сервера с неуспешным статусом.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Unwrap позволяет сравнивать ошибку с ошибками из models через errors.Is.
func (e *APIError) Unwrap() error {
	return e.kind
}

// AuthResponse — ответ на регистрацию и вход.
type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// HealthResponse — ответ проверки состояния.
type HealthResponse struct {
	OK       bool `json:"ok"`
	Provider struct {
		RemoteEnabled bool   `json:"remoteEnabled"`
		Label         string `json:"label"`
	} `json:"provider"`
}

// Client — клиент REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New создаёт клиент. baseURL включает префикс /api.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken задаёт токен сессии. Пустая строка завершает сессию.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token возвращает текущий токен сессии.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Signup регистрирует пользователя и запоминает токен.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	const op = "client.Signup"
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Login выполняет вход и запоминает токен.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	const op = "client.Login"
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			apiErr.kind = models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Logout забывает токен.
func (c *Client) Logout() {
	c.SetToken("")
}

// Me возвращает текущего пользователя.
func (c *Client) Me(ctx context.Context) (*models.PublicUser, error) {
	const op = "client.Me"
	var user models.PublicUser
	if err := c.do(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// ReadDashboard возвращает состояние дашборда.
func (c *Client) ReadDashboard(ctx context.Context) (models.DashboardState, error) {
	const op = "client.ReadDashboard"
	var state models.DashboardState
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &state); err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, err)
	}
	return state, nil
}

// WritePatch отправляет частичное обновление дашборда.
func (c *Client) WritePatch(ctx context.Context, patch models.DashboardPatch) (models.DashboardState, error) {
	const op = "client.WritePatch"
	var state models.DashboardState
	if err := c.do(ctx, http.MethodPatch, "/dashboard", patch, &state); err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, err)
	}
	return state, nil
}

// ListPantryItems возвращает продукты кладовой.
func (c *Client) ListPantryItems(ctx context.Context) ([]models.PantryItem, error) {
	const op = "client.ListPantryItems"
	var items []models.PantryItem
	if err := c.do(ctx, http.MethodGet, "/pantry-items", nil, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// CreatePantryItem добавляет продукт.
func (c *Client) CreatePantryItem(ctx context.Context, name, quantity string) (*models.PantryItem, error) {
	const op = "client.CreatePantryItem"
	body := map[string]string{"name": name}
	if quantity != "" {
		body["quantity"] = quantity
	}
	var item models.PantryItem
	if err := c.do(ctx, http.MethodPost, "/pantry-items", body, &item); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

// DeletePantryItem удаляет продукт.
func (c *Client) DeletePantryItem(ctx context.Context, id string) error {
	const op = "client.DeletePantryItem"
	if err := c.do(ctx, http.MethodDelete, "/pantry-items/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MealPlanInput — тело запроса на создание блюда.
type MealPlanInput struct {
	Day      string `json:"day"`
	MealType string `json:"mealType"`
	Title    string `json:"title"`
	Calories *int   `json:"calories,omitempty"`
}

// ListMealPlans возвращает план питания.
func (c *Client) ListMealPlans(ctx context.Context) ([]models.MealPlanEntry, error) {
	const op = "client.ListMealPlans"
	var entries []models.MealPlanEntry
	if err := c.do(ctx, http.MethodGet, "/meal-plans", nil, &entries); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

// CreateMealPlan добавляет блюдо.
func (c *Client) CreateMealPlan(ctx context.Context, in MealPlanInput) (*models.MealPlanEntry, error) {
	const op = "client.CreateMealPlan"
	var entry models.MealPlanEntry
	if err := c.do(ctx, http.MethodPost, "/meal-plans", in, &entry); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &entry, nil
}

// DeleteMealPlan удаляет блюдо.
func (c *Client) DeleteMealPlan(ctx context.Context, id string) error {
	const op = "client.DeleteMealPlan"
	if err := c.do(ctx, http.MethodDelete, "/meal-plans/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Health возвращает состояние сервиса и описание хранилища.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	const op = "client.Health"
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
		reader = &buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg, kind: kindOf(resp.StatusCode)}
}

func kindOf(status int) error {
	switch status {
	case http.StatusBadRequest:
		return models.ErrValidation
	case http.StatusUnauthorized:
		return models.ErrUnauthorized
	case http.StatusNotFound:
		return models.ErrNotFound
	case http.StatusConflict:
		return models.ErrDuplicateAccount
	case http.StatusServiceUnavailable:
		return models.ErrRemoteUnavailable
	default:
		return nil
	}
}
