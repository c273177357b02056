package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/surchef/internal/cache"
	customjwt "github.com/magabrotheeeer/surchef/internal/lib/jwt"
	"github.com/magabrotheeeer/surchef/internal/lib/password"
	"github.com/magabrotheeeer/surchef/internal/models"
	"github.com/magabrotheeeer/surchef/internal/services/auth"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для EventPublisher
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// Кэш в памяти для проверки повторных обращений
type memoryCache struct {
	data map[string]models.PublicUser
}

func (c *memoryCache) Get(_ context.Context, key string, result any) (bool, error) {
	v, ok := c.data[key]
	if ok {
		*(result.(*models.PublicUser)) = v
	}
	return ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.data[key] = value.(models.PublicUser)
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(repo *UserRepoMock, events *PublisherMock) *auth.Service {
	return auth.NewService(repo, customjwt.NewJWTMaker("test-secret", 0), cache.Nop{}, events, discardLogger())
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		userName   string
		email      string
		password   string
		setupMocks func(r *UserRepoMock, p *PublisherMock)
		wantErr    error
	}{
		{
			name:     "successful registration",
			userName: " Ada ",
			email:    " Ada@Example.COM ",
			password: "password123",
			setupMocks: func(r *UserRepoMock, p *PublisherMock) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Name == "Ada" &&
						u.Email == "Ada@Example.COM" &&
						u.ID != "" &&
						u.PasswordHash != "" &&
						u.PasswordHash != "password123" &&
						password.CompareHash(u.PasswordHash, "password123") == nil
				})).Return(nil).Once()
				p.On("Publish", mock.Anything, mock.MatchedBy(func(e models.Event) bool {
					return e.Type == models.EventUserRegistered && e.UserID != ""
				})).Return(nil).Once()
			},
		},
		{
			name:     "duplicate email",
			userName: "Ada",
			email:    "ada@example.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock, _ *PublisherMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).Return(models.ErrDuplicateAccount).Once()
			},
			wantErr: models.ErrDuplicateAccount,
		},
		{
			name:       "missing password",
			userName:   "Ada",
			email:      "ada@example.com",
			setupMocks: func(_ *UserRepoMock, _ *PublisherMock) {},
			wantErr:    models.ErrValidation,
		},
		{
			name:     "publish failure does not fail registration",
			userName: "Bob",
			email:    "bob@example.com",
			password: "pw",
			setupMocks: func(r *UserRepoMock, p *PublisherMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).Return(nil).Once()
				p.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			events := new(PublisherMock)
			tt.setupMocks(repo, events)
			svc := newService(repo, events)

			user, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, user.ID)
			}

			repo.AssertExpectations(t)
			events.AssertExpectations(t)
		})
	}
}

func TestService_Verify(t *testing.T) {
	hash, err := password.GetHash("correct")
	require.NoError(t, err)
	stored := &models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: hash}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:     "correct password",
			email:    " ADA@example.com ",
			password: "correct",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "ADA@example.com").Return(stored, nil).Once()
			},
		},
		{
			name:     "wrong password",
			email:    "ada@example.com",
			password: "wrong",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(stored, nil).Once()
			},
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "correct",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name:     "store unavailable",
			email:    "ada@example.com",
			password: "correct",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(nil, models.ErrRemoteUnavailable).Once()
			},
			wantErr: models.ErrRemoteUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc := newService(repo, new(PublisherMock))

			user, err := svc.Verify(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "u1", user.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_VerifyErrorsAreIndistinguishable(t *testing.T) {
	hash, err := password.GetHash("correct")
	require.NoError(t, err)
	repo := new(UserRepoMock)
	repo.On("GetUserByEmail", mock.Anything, "ada@example.com").
		Return(&models.User{ID: "u1", Email: "ada@example.com", PasswordHash: hash}, nil)
	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, models.ErrNotFound)
	svc := newService(repo, new(PublisherMock))

	_, wrongPassword := svc.Verify(context.Background(), "ada@example.com", "nope")
	_, unknownEmail := svc.Verify(context.Background(), "nobody@example.com", "nope")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestService_VerifyUnknownEmailStillComparesHash(t *testing.T) {
	hash, err := password.GetHash("correct")
	require.NoError(t, err)
	repo := new(UserRepoMock)
	repo.On("GetUserByEmail", mock.Anything, "ada@example.com").
		Return(&models.User{ID: "u1", Email: "ada@example.com", PasswordHash: hash}, nil)
	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, models.ErrNotFound)
	svc := newService(repo, new(PublisherMock))

	// первый вызов вычисляет фиктивный хэш
	_, _ = svc.Verify(context.Background(), "nobody@example.com", "nope")

	start := time.Now()
	_, err = svc.Verify(context.Background(), "ada@example.com", "nope")
	wrongPassword := time.Since(start)
	require.ErrorIs(t, err, models.ErrInvalidCredentials)

	start = time.Now()
	_, err = svc.Verify(context.Background(), "nobody@example.com", "nope")
	unknownEmail := time.Since(start)
	require.ErrorIs(t, err, models.ErrInvalidCredentials)

	assert.Greater(t, unknownEmail, wrongPassword/4)
}

func TestService_LoginIssuesToken(t *testing.T) {
	hash, err := password.GetHash("correct")
	require.NoError(t, err)
	repo := new(UserRepoMock)
	repo.On("GetUserByEmail", mock.Anything, "ada@example.com").
		Return(&models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: hash}, nil)
	svc := newService(repo, new(PublisherMock))

	token, user, err := svc.Login(context.Background(), "ada@example.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestService_SignupIssuesToken(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil).Once()
	events := new(PublisherMock)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
	svc := newService(repo, events)

	token, user, err := svc.Signup(context.Background(), "Ada", "ada@example.com", "pw")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestService_MeUsesCache(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("GetUserByID", mock.Anything, "u1").
		Return(&models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "secret"}, nil).Once()
	repo.On("GetUserByID", mock.Anything, "ghost").Return(nil, models.ErrNotFound).Once()

	mem := &memoryCache{data: map[string]models.PublicUser{}}
	svc := auth.NewService(repo, customjwt.NewJWTMaker("k", 0), mem, new(PublisherMock), discardLogger())

	for range 2 {
		me, err := svc.Me(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, models.PublicUser{ID: "u1", Name: "Ada", Email: "ada@example.com"}, *me)
	}

	_, err := svc.Me(context.Background(), "ghost")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	repo.AssertExpectations(t)
}

func TestService_ValidateTokenRejectsGarbage(t *testing.T) {
	svc := newService(new(UserRepoMock), new(PublisherMock))

	claims, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}
