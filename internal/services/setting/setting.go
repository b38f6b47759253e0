// Package services хранит настройки компании: одна запись на развертывание,
// закэшированная в redis и сбрасываемая при каждом изменении.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

const (
	settingKey = "settings"
	settingTTL = 10 * time.Minute
)

// SettingRepository хранилище настроек.
type SettingRepository interface {
	GetSetting(ctx context.Context) (*models.Setting, error)
	SaveSetting(ctx context.Context, st models.Setting) (*models.Setting, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// SettingService читает и изменяет настройки компании.
type SettingService struct {
	repo  SettingRepository
	cache Cache
	log   *slog.Logger
}

// NewSettingService создает новый экземпляр SettingService.
func NewSettingService(repo SettingRepository, cache Cache, log *slog.Logger) *SettingService {
	return &SettingService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Get возвращает настройки целиком.
func (s *SettingService) Get(ctx context.Context) (*models.Setting, error) {
	const op = "services.setting.Get"

	var st models.Setting
	found, err := s.cache.Get(ctx, settingKey, &st)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", settingKey), sl.Err(err))
	}
	if found {
		return &st, nil
	}

	fresh, err := s.repo.GetSetting(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, settingKey, fresh, settingTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", settingKey), sl.Err(err))
	}
	return fresh, nil
}

// Public возвращает часть настроек, доступную без авторизации.
func (s *SettingService) Public(ctx context.Context) (*models.PublicSetting, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	public := st.Public()
	return &public, nil
}

// Update применяет частичное изменение и сбрасывает кеш.
func (s *SettingService) Update(ctx context.Context, patch models.SettingPatch) (*models.Setting, error) {
	const op = "services.setting.Update"

	current, err := s.repo.GetSetting(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	saved, err := s.repo.SaveSetting(ctx, patch.Apply(*current))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, settingKey); err != nil {
		s.log.Error("failed to invalidate settings cache", sl.Err(err))
	}
	s.log.Info("settings updated")
	return saved, nil
}
