// Package dashboard реализует чтение и частичное обновление состояния
// дашборда пользователя поверх выбранного хранилища.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/surchef/internal/lib/metrics"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/models"
)

// Repository описывает операции хранилища с дашбордом.
type Repository interface {
	ReadDashboard(ctx context.Context, userID string) (models.DashboardState, error)
	WriteDashboardPatch(ctx context.Context, userID string, patch models.DashboardPatch, now time.Time) (models.DashboardState, error)
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// Service — хранилище состояния дашборда.
type Service struct {
	repo     Repository
	events   EventPublisher
	provider string
	log      *slog.Logger
	now      func() time.Time
}

// NewService создаёт сервис. provider — метка хранилища для метрик.
func NewService(repo Repository, events EventPublisher, provider string, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		events:   events,
		provider: provider,
		log:      log,
		now:      time.Now,
	}
}

// Read возвращает сохранённое состояние. Для пользователя без данных
// возвращается состояние по умолчанию.
func (s *Service) Read(ctx context.Context, userID string) (models.DashboardState, error) {
	const op = "services.dashboard.Read"

	state, err := s.repo.ReadDashboard(ctx, userID)
	if err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, err)
	}
	return state, nil
}

// WritePatch сливает патч с сохранённым состоянием и возвращает новое состояние целиком.
func (s *Service) WritePatch(ctx context.Context, userID string, patch models.DashboardPatch) (models.DashboardState, error) {
	const op = "services.dashboard.WritePatch"

	if err := patch.Validate(); err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	state, err := s.repo.WriteDashboardPatch(ctx, userID, patch, now)
	metrics.DashboardWrites.WithLabelValues(s.provider, metrics.Result(err)).Inc()
	if err != nil {
		return models.DashboardState{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("dashboard saved",
		slog.String("user_id", userID),
		slog.Int("pantry_items", len(state.PantryItems)),
		slog.Int("meal_plan", len(state.MealPlan)),
	)
	event := models.Event{Type: models.EventDashboardSaved, UserID: userID, OccurredAt: now.UTC()}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", event.Type), sl.Err(err))
	}
	return state, nil
}
