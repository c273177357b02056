// Package recipes реализует клиент внешнего каталога рецептов
// (API, совместимый со Spoonacular).
//
// Клиент никогда не возвращает ошибок: сбой сети, неуспешный статус или
// отсутствие ключа API дают пустой результат. Ошибки только логируются.
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/surchef/internal/config"
	"github.com/magabrotheeeer/surchef/internal/lib/metrics"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
)

const (
	pageSize     = "12"
	featuredSize = "8"
	// DefaultTimeout — таймаут одного запроса к каталогу.
	DefaultTimeout = 10 * time.Second
)

// Cache описывает кэш ответов каталога.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Client — клиент каталога рецептов.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
	log        *slog.Logger
}

// NewClient создаёт клиент каталога. cache может быть nil.
func NewClient(cfg config.RecipeAPI, cache Cache, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
		log:        log,
	}
}

// Enabled сообщает, задан ли ключ API.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Search ищет рецепты по текстовому запросу.
func (c *Client) Search(ctx context.Context, query string) []Recipe {
	query = strings.TrimSpace(query)
	if !c.Enabled() || query == "" {
		return []Recipe{}
	}
	params := url.Values{
		"query":                {query},
		"number":               {pageSize},
		"addRecipeInformation": {"true"},
	}
	var resp searchResponse
	if !c.cached(ctx, "search", "recipes:search:"+strings.ToLower(query), "/recipes/complexSearch", params, &resp) {
		return []Recipe{}
	}
	return nonNil(resp.Results)
}

// SearchByIngredients ищет рецепты, которые можно приготовить из перечисленных продуктов.
// Пустые элементы отбрасываются.
func (c *Client) SearchByIngredients(ctx context.Context, ingredients []string) []Recipe {
	cleaned := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			cleaned = append(cleaned, ing)
		}
	}
	if !c.Enabled() || len(cleaned) == 0 {
		return []Recipe{}
	}
	joined := strings.Join(cleaned, ",")
	params := url.Values{
		"ingredients":  {joined},
		"number":       {pageSize},
		"ranking":      {"2"},
		"ignorePantry": {"true"},
	}
	var resp []Recipe
	if !c.cached(ctx, "by_ingredients", "recipes:ingredients:"+strings.ToLower(joined), "/recipes/findByIngredients", params, &resp) {
		return []Recipe{}
	}
	return nonNil(resp)
}

// Details возвращает полное описание рецепта или nil.
func (c *Client) Details(ctx context.Context, id int) *Details {
	if !c.Enabled() || id <= 0 {
		return nil
	}
	var resp Details
	path := "/recipes/" + strconv.Itoa(id) + "/information"
	params := url.Values{"includeNutrition": {"true"}}
	if !c.cached(ctx, "details", "recipes:details:"+strconv.Itoa(id), path, params, &resp) {
		return nil
	}
	return &resp
}

// Featured возвращает подборку случайных рецептов. Результат не кэшируется.
func (c *Client) Featured(ctx context.Context) []Recipe {
	if !c.Enabled() {
		return []Recipe{}
	}
	var resp randomResponse
	if err := c.getJSON(ctx, "featured", "/recipes/random", url.Values{"number": {featuredSize}}, &resp); err != nil {
		return []Recipe{}
	}
	return nonNil(resp.Recipes)
}

// cached читает ответ из кэша или запрашивает каталог и кладёт ответ в кэш.
func (c *Client) cached(ctx context.Context, operation, key, path string, params url.Values, out any) bool {
	if c.cache != nil {
		found, err := c.cache.Get(ctx, key, out)
		if err != nil {
			c.log.Warn("failed to read recipe cache", slog.String("key", key), sl.Err(err))
		}
		if found {
			return true
		}
	}
	if err := c.getJSON(ctx, operation, path, params, out); err != nil {
		return false
	}
	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, out, c.cacheTTL); err != nil {
			c.log.Warn("failed to cache recipes", slog.String("key", key), sl.Err(err))
		}
	}
	return true
}

func (c *Client) getJSON(ctx context.Context, operation, path string, params url.Values, out any) (err error) {
	defer func() {
		metrics.CatalogRequests.WithLabelValues(operation, metrics.Result(err)).Inc()
		if err != nil {
			c.log.Warn("recipe catalog request failed",
				slog.String("operation", operation),
				sl.Err(err),
			)
		}
	}()

	params.Set("apiKey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return redact(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return redact(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// redact убирает URL с ключом API из ошибки транспорта.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func nonNil(r []Recipe) []Recipe {
	if r == nil {
		return []Recipe{}
	}
	return r
}
