// Package surchef собирает HTTP-приложение: сервисы, маршруты и сервер.
package surchef

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/surchef/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/surchef/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/surchef/internal/http/handlers/auth/signup"
	dashboardpatch "github.com/magabrotheeeer/surchef/internal/http/handlers/dashboard/patch"
	dashboardread "github.com/magabrotheeeer/surchef/internal/http/handlers/dashboard/read"
	"github.com/magabrotheeeer/surchef/internal/http/handlers/health"
	mealcreate "github.com/magabrotheeeer/surchef/internal/http/handlers/mealplan/create"
	meallist "github.com/magabrotheeeer/surchef/internal/http/handlers/mealplan/list"
	mealremove "github.com/magabrotheeeer/surchef/internal/http/handlers/mealplan/remove"
	pantrycreate "github.com/magabrotheeeer/surchef/internal/http/handlers/pantry/create"
	pantrylist "github.com/magabrotheeeer/surchef/internal/http/handlers/pantry/list"
	pantryremove "github.com/magabrotheeeer/surchef/internal/http/handlers/pantry/remove"
	"github.com/magabrotheeeer/surchef/internal/http/handlers/recipes/byingredients"
	"github.com/magabrotheeeer/surchef/internal/http/handlers/recipes/details"
	"github.com/magabrotheeeer/surchef/internal/http/handlers/recipes/featured"
	"github.com/magabrotheeeer/surchef/internal/http/handlers/recipes/search"
	"github.com/magabrotheeeer/surchef/internal/http/middlewarectx"
	"github.com/magabrotheeeer/surchef/internal/provider"
	"github.com/magabrotheeeer/surchef/internal/recipes"
	authservice "github.com/magabrotheeeer/surchef/internal/services/auth"
	dashboardservice "github.com/magabrotheeeer/surchef/internal/services/dashboard"
	mealplanservice "github.com/magabrotheeeer/surchef/internal/services/mealplan"
	pantryservice "github.com/magabrotheeeer/surchef/internal/services/pantry"
)

// Services — всё, что нужно маршрутам.
type Services struct {
	Auth      *authservice.Service
	Dashboard *dashboardservice.Service
	Pantry    *pantryservice.Service
	MealPlan  *mealplanservice.Service
	Recipes   *recipes.Client
	Provider  *provider.Provider

	RateLimitRPS   float64
	RateLimitBurst int
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", health.New(s.Provider).ServeHTTP)

		// Открытые конечные точки, ограничены по частоте
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, s.RateLimitRPS, s.RateLimitBurst))
			r.Post("/auth/signup", signup.New(logger, s.Auth).ServeHTTP)
			r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

			r.Get("/me", me.New(logger, s.Auth).ServeHTTP)

			r.Get("/meal-plans", meallist.New(logger, s.MealPlan).ServeHTTP)
			r.Post("/meal-plans", mealcreate.New(logger, s.MealPlan).ServeHTTP)
			r.Delete("/meal-plans/{id}", mealremove.New(logger, s.MealPlan).ServeHTTP)

			r.Get("/pantry-items", pantrylist.New(logger, s.Pantry).ServeHTTP)
			r.Post("/pantry-items", pantrycreate.New(logger, s.Pantry).ServeHTTP)
			r.Delete("/pantry-items/{id}", pantryremove.New(logger, s.Pantry).ServeHTTP)

			r.Get("/dashboard", dashboardread.New(logger, s.Dashboard).ServeHTTP)
			r.Patch("/dashboard", dashboardpatch.New(logger, s.Dashboard).ServeHTTP)

			r.Get("/recipes/search", search.New(logger, s.Recipes).ServeHTTP)
			r.Get("/recipes/by-ingredients", byingredients.New(logger, s.Recipes).ServeHTTP)
			r.Get("/recipes/featured", featured.New(logger, s.Recipes).ServeHTTP)
			r.Get("/recipes/{id}", details.New(logger, s.Recipes).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
