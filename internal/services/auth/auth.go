// Package services содержит логику регистрации, входа и профиля пользователя.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/car-rental/internal/lib/jwt"
	"github.com/magabrotheeeer/car-rental/internal/lib/password"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	"github.com/magabrotheeeer/car-rental/internal/storage"
)

var (
	// ErrInvalidCredentials неизвестный email или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInactiveUser учетная запись отключена администратором.
	ErrInactiveUser = errors.New("account is disabled")
	// ErrEmailTaken email уже зарегистрирован.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrUserNotFound пользователь из токена не найден.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id, name, phone string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// AuthService отвечает за регистрацию, вход и профиль.
type AuthService struct {
	users  UserRepository
	issuer jwt.Issuer
	log    *slog.Logger
	now    func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, issuer jwt.Issuer, log *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		issuer: issuer,
		log:    log,
		now:    time.Now,
	}
}

// Register создает активного пользователя с ролью user.
func (s *AuthService) Register(ctx context.Context, name, email, phone, rawPassword string) (*models.User, error) {
	const op = "services.auth.Register"

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		PasswordHash: hashed,
		Phone:        strings.TrimSpace(phone),
		Role:         models.RoleUser,
		IsActive:     true,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login проверяет пароль и выпускает токен сессии.
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Compare(user.PasswordHash, rawPassword); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.Error("password hash check failed", slog.String("user_id", user.ID), sl.Err(err))
		}
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrInactiveUser
	}

	token, err := s.issuer.Issue(jwt.Payload{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to record last login", slog.String("user_id", user.ID), sl.Err(err))
	} else {
		user.LastLoginAt = &now
	}
	return token, user, nil
}

// Profile возвращает пользователя по ID из токена.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	const op = "services.auth.Profile"

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateProfile меняет имя и телефон. Email и пароль этим путем не меняются.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, phone string) (*models.User, error) {
	const op = "services.auth.UpdateProfile"

	user, err := s.users.UpdateUserProfile(ctx, userID, strings.TrimSpace(name), strings.TrimSpace(phone))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
