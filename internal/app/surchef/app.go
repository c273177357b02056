package surchef

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/surchef/internal/cache"
	"github.com/magabrotheeeer/surchef/internal/config"
	"github.com/magabrotheeeer/surchef/internal/lib/jwt"
	"github.com/magabrotheeeer/surchef/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/provider"
	"github.com/magabrotheeeer/surchef/internal/recipes"
	authservice "github.com/magabrotheeeer/surchef/internal/services/auth"
	dashboardservice "github.com/magabrotheeeer/surchef/internal/services/dashboard"
	mealplanservice "github.com/magabrotheeeer/surchef/internal/services/mealplan"
	pantryservice "github.com/magabrotheeeer/surchef/internal/services/pantry"
)

const (
	shutdownTimeout = 15 * time.Second
	amqpRetries     = 5
	amqpRetryDelay  = 2 * time.Second
)

// Cache — кэш, общий для профилей и ответов каталога.
type Cache interface {
	authservice.Cache
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	authservice.EventPublisher
}

// App — HTTP-сервер со всеми зависимостями.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	provider *provider.Provider
	closers  []func() error
}

// New выбирает хранилище, подключает кэш и брокер и собирает сервер.
// Redis и RabbitMQ необязательны: без адреса кэш и публикация событий
// отключаются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	prov, err := provider.Select(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app := &App{logger: logger, provider: prov}

	var c Cache = cache.Nop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			_ = prov.Close()
			return nil, err
		}
		c = redisCache
		app.closers = append(app.closers, redisCache.Close)
	}

	var events EventPublisher = rabbitmq.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		publisher, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, amqpRetries, amqpRetryDelay)
		if err != nil {
			app.close()
			_ = prov.Close()
			return nil, err
		}
		events = publisher
		app.closers = append(app.closers, publisher.Close)
	}

	app.server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      NewHandler(cfg, logger, prov, c, events),
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// NewHandler собирает сервисы поверх выбранного хранилища и возвращает роутер.
func NewHandler(cfg *config.Config, logger *slog.Logger, prov *provider.Provider, c Cache, events EventPublisher) http.Handler {
	store := prov.Store
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	services := Services{
		Auth:           authservice.NewService(store, jwtMaker, c, events, logger),
		Dashboard:      dashboardservice.NewService(store, events, prov.Descriptor().Label, logger),
		Pantry:         pantryservice.NewService(store),
		MealPlan:       mealplanservice.NewService(store),
		Recipes:        recipes.NewClient(cfg.RecipeAPI, c, logger),
		Provider:       prov,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}
	if !services.Recipes.Enabled() {
		logger.Warn("recipe api key is not set, catalog endpoints return empty results")
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services)
	return router
}

// Run запускает сервер и останавливает его по отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		_ = a.provider.Close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		if cerr := a.provider.Close(); cerr != nil {
			a.logger.Error("failed to close storage", sl.Err(cerr))
		}
		return err
	}
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close dependency", sl.Err(err))
		}
	}
}
