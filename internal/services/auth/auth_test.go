package services_test

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

	"github.com/magabrotheeeer/car-rental/internal/lib/jwt"
	"github.com/magabrotheeeer/car-rental/internal/lib/password"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/auth"
	"github.com/magabrotheeeer/car-rental/internal/storage"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUserProfile(ctx context.Context, id, name, phone string) (*models.User, error) {
	args := m.Called(ctx, id, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name: "successful registration",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Email == "client@rent.uz" &&
						u.Name == "Client" &&
						u.PasswordHash != "" && u.PasswordHash != "secret123" &&
						u.Role == models.RoleUser && u.IsActive
				})).Return(&models.User{ID: "u-1", Email: "client@rent.uz", Role: models.RoleUser}, nil).Once()
			},
		},
		{
			name: "email already taken",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return(nil, storage.ErrAlreadyExists).Once()
			},
			wantErr: services.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := services.NewAuthService(repo, jwt.NewJWTMaker("secret", time.Hour), newNoopLogger())
			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), " Client ", "client@rent.uz", "", "secret123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "u-1", got.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	const rawPassword = "correctpassword"
	hashed, err := password.Hash(rawPassword)
	require.NoError(t, err)

	activeUser := func() *models.User {
		return &models.User{ID: "u-1", Email: "admin@rent.uz", PasswordHash: hashed, Role: models.RoleAdmin, IsActive: true}
	}

	tests := []struct {
		name       string
		password   string
		secret     string
		setupMocks func(r *UserRepoMock)
		wantErr    error
		wantAnyErr bool
	}{
		{
			name:     "successful login",
			password: rawPassword,
			secret:   "secret",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "admin@rent.uz").Return(activeUser(), nil).Once()
				r.On("TouchLastLogin", mock.Anything, "u-1", mock.AnythingOfType("time.Time")).Return(nil).Once()
			},
		},
		{
			name:     "unknown email",
			password: rawPassword,
			secret:   "secret",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "admin@rent.uz").Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			password: "wrongpassword",
			secret:   "secret",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "admin@rent.uz").Return(activeUser(), nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "inactive user",
			password: rawPassword,
			secret:   "secret",
			setupMocks: func(r *UserRepoMock) {
				u := activeUser()
				u.IsActive = false
				r.On("GetUserByEmail", mock.Anything, "admin@rent.uz").Return(u, nil).Once()
			},
			wantErr: services.ErrInactiveUser,
		},
		{
			name:     "secret missing is a server error",
			password: rawPassword,
			secret:   "",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "admin@rent.uz").Return(activeUser(), nil).Once()
			},
			wantErr: jwt.ErrSecretMissing,
		},
		{
			name:     "storage failure",
			password: rawPassword,
			secret:   "secret",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "admin@rent.uz").Return(nil, errors.New("db down")).Once()
			},
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			maker := jwt.NewJWTMaker(tt.secret, jwt.SessionTTL)
			svc := services.NewAuthService(repo, maker, newNoopLogger())
			tt.setupMocks(repo)

			token, user, err := svc.Login(context.Background(), "admin@rent.uz", tt.password)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			case tt.wantAnyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
			default:
				require.NoError(t, err)
				require.NotNil(t, user.LastLoginAt)

				claims, err := maker.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, "u-1", claims.UserID)
				assert.Equal(t, models.RoleAdmin, claims.Role)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Profile(t *testing.T) {
	repo := new(UserRepoMock)
	svc := services.NewAuthService(repo, jwt.NewJWTMaker("secret", time.Hour), newNoopLogger())

	repo.On("GetUserByID", mock.Anything, "missing").Return(nil, storage.ErrNotFound).Once()
	repo.On("UpdateUserProfile", mock.Anything, "u-1", "New Name", "+998").
		Return(&models.User{ID: "u-1", Name: "New Name", Phone: "+998"}, nil).Once()

	_, err := svc.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	u, err := svc.UpdateProfile(context.Background(), "u-1", " New Name ", "+998")
	require.NoError(t, err)
	assert.Equal(t, "New Name", u.Name)

	repo.AssertExpectations(t)
}
