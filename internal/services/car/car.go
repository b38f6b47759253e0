// Package services содержит логику каталога автомобилей с кэшированием в redis.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	"github.com/magabrotheeeer/car-rental/internal/storage"
)

const (
	featuredKey   = "cars:featured"
	featuredLimit = 6
	featuredTTL   = 5 * time.Minute
	carTTL        = time.Hour

	defaultPageSize = 12
	maxPageSize     = 100
)

// ErrCarNotFound автомобиль не найден.
var ErrCarNotFound = errors.New("car not found")

// CarRepository определяет методы для работы с автомобилями в хранилище.
type CarRepository interface {
	CreateCar(ctx context.Context, car models.Car) (*models.Car, error)
	GetCar(ctx context.Context, id string) (*models.Car, error)
	UpdateCar(ctx context.Context, car models.Car) (*models.Car, error)
	RemoveCar(ctx context.Context, id string) error
	SearchCars(ctx context.Context, f models.CarFilter) ([]*models.Car, int, error)
	FeaturedCars(ctx context.Context, limit int) ([]*models.Car, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// CarService реализует каталог автомобилей.
type CarService struct {
	repo  CarRepository
	cache Cache
	log   *slog.Logger
}

// NewCarService создает новый экземпляр CarService.
func NewCarService(repo CarRepository, cache Cache, log *slog.Logger) *CarService {
	return &CarService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func carKey(id string) string {
	return "car:" + id
}

// Search ищет автомобили и возвращает страницу с пагинацией. page начинается с 1.
func (s *CarService) Search(ctx context.Context, f models.CarFilter, page, limit int) ([]*models.Car, models.Pagination, error) {
	const op = "services.car.Search"

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	cars, total, err := s.repo.SearchCars(ctx, f)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("%s: %w", op, err)
	}
	return cars, models.NewPagination(page, limit, total), nil
}

// Featured возвращает доступные автомобили с лучшим рейтингом.
func (s *CarService) Featured(ctx context.Context) ([]*models.Car, error) {
	const op = "services.car.Featured"

	var cars []*models.Car
	if s.fromCache(ctx, featuredKey, &cars) {
		return cars, nil
	}
	cars, err := s.repo.FeaturedCars(ctx, featuredLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, featuredKey, cars, featuredTTL)
	return cars, nil
}

// Read возвращает автомобиль по ID, используя кеш или репозиторий.
func (s *CarService) Read(ctx context.Context, id string) (*models.Car, error) {
	const op = "services.car.Read"

	var car *models.Car
	if s.fromCache(ctx, carKey(id), &car) && car != nil {
		return car, nil
	}
	car, err := s.repo.GetCar(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, carKey(id), car, carTTL)
	return car, nil
}

// Create добавляет автомобиль и сбрасывает кеш витрины.
func (s *CarService) Create(ctx context.Context, car models.Car) (*models.Car, error) {
	const op = "services.car.Create"

	created, err := s.repo.CreateCar(ctx, car)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("car created", slog.String("car_id", created.ID))
	s.invalidate(ctx, featuredKey)
	return created, nil
}

// Update перезаписывает автомобиль и сбрасывает кеш.
func (s *CarService) Update(ctx context.Context, car models.Car) (*models.Car, error) {
	const op = "services.car.Update"

	updated, err := s.repo.UpdateCar(ctx, car)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, featuredKey, carKey(car.ID))
	return updated, nil
}

// Remove удаляет автомобиль и сбрасывает кеш.
func (s *CarService) Remove(ctx context.Context, id string) error {
	const op = "services.car.Remove"

	err := s.repo.RemoveCar(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrCarNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("car removed", slog.String("car_id", id))
	s.invalidate(ctx, featuredKey, carKey(id))
	return nil
}

// Ошибки кеша не ломают запрос: данные читаются из базы.
func (s *CarService) fromCache(ctx context.Context, key string, result any) bool {
	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *CarService) toCache(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *CarService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to remove from cache", slog.Any("keys", keys), sl.Err(err))
	}
}
