// Package auth содержит бизнес-логику учётных записей: регистрацию,
// проверку пароля, выпуск и проверку сессионных токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/surchef/internal/lib/jwt"
	"github.com/magabrotheeeer/surchef/internal/lib/password"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
	"github.com/magabrotheeeer/surchef/internal/models"
)

const profileCacheTTL = 5 * time.Minute

// dummyHash сравнивается с паролем, когда email не найден, чтобы время
// ответа не зависело от существования учётной записи.
var dummyHash = sync.OnceValues(func() (string, error) {
	return password.GetHash("surchef-unknown-account")
})

// UserRepository описывает контракт хранилища учётных записей.
type UserRepository interface {
	// CreateUser сохраняет пользователя или возвращает models.ErrDuplicateAccount.
	CreateUser(ctx context.Context, user models.User) error
	// GetUserByEmail ищет пользователя по email без учёта регистра.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID ищет пользователя по идентификатору.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	cache    Cache
	events   EventPublisher
	log      *slog.Logger
	now      func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, jwtMaker jwt.Maker, cache Cache, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		cache:    cache,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// Register создаёт учётную запись. Email сохраняется в том виде, в каком
// его ввёл пользователь, уникальность проверяет хранилище без учёта регистра.
// Пароль сохраняется только в виде bcrypt-хэша.
func (s *Service) Register(ctx context.Context, name, email, rawPassword string) (*models.User, error) {
	const op = "services.auth.Register"

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || rawPassword == "" {
		return nil, fmt.Errorf("%s: %w: name, email and password are required", op, models.ErrValidation)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.String("user_id", user.ID))
	event := models.Event{Type: models.EventUserRegistered, UserID: user.ID, OccurredAt: user.CreatedAt}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", event.Type), sl.Err(err))
	}
	return &user, nil
}

// Verify проверяет пару email/пароль. Неизвестный email и неверный пароль
// дают одну и ту же ошибку models.ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, email, rawPassword string) (*models.User, error) {
	const op = "services.auth.Verify"

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, models.ErrNotFound) {
		if hash, hashErr := dummyHash(); hashErr == nil {
			_ = password.CompareHash(hash, rawPassword)
		}
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	return user, nil
}

// Signup регистрирует пользователя и сразу выпускает для него токен.
func (s *Service) Signup(ctx context.Context, name, email, rawPassword string) (string, *models.User, error) {
	const op = "services.auth.Signup"

	user, err := s.Register(ctx, name, email, rawPassword)
	if err != nil {
		return "", nil, err
	}
	token, err := s.jwtMaker.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// Login проверяет учётные данные и выпускает токен.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "services.auth.Login"

	user, err := s.Verify(ctx, email, rawPassword)
	if err != nil {
		return "", nil, err
	}
	token, err := s.jwtMaker.GenerateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// Me возвращает публичные данные пользователя, используя кэш.
func (s *Service) Me(ctx context.Context, userID string) (*models.PublicUser, error) {
	const op = "services.auth.Me"

	cacheKey := "user:" + userID
	var cached models.PublicUser
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	public := user.Public()
	if err := s.cache.Set(ctx, cacheKey, public, profileCacheTTL); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", cacheKey), sl.Err(err))
	}
	return &public, nil
}

// ValidateToken проверяет JWT и возвращает его claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
