// Package services содержит логику бронирований: создание с расчетом цены,
// выборки пользователя и администратора, смену статуса и отмену.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/magabrotheeeer/car-rental/internal/lib/days"
	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
	"github.com/magabrotheeeer/car-rental/internal/storage"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

var (
	// ErrStartNotInFuture дата начала не позже текущего момента.
	ErrStartNotInFuture = errors.New("start date must be in the future")
	// ErrEndBeforeStart дата окончания не позже даты начала.
	ErrEndBeforeStart = errors.New("end date must be after start date")
	// ErrCarNotFound автомобиль не найден.
	ErrCarNotFound = errors.New("car not found")
	// ErrCarUnavailable автомобиль снят с аренды.
	ErrCarUnavailable = errors.New("car is not available")
	// ErrDatesTaken автомобиль уже забронирован на эти даты.
	ErrDatesTaken = errors.New("car is already booked for these dates")
	// ErrBookingNotFound бронирование не найдено или принадлежит другому пользователю.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrInvalidStatus статус не из списка допустимых для администратора.
	ErrInvalidStatus = errors.New("invalid booking status")
	// ErrNotCancellable бронирование уже нельзя отменить.
	ErrNotCancellable = errors.New("booking can not be cancelled in its current status")
	// ErrCancellationWindow до начала аренды осталось меньше окна отмены.
	ErrCancellationWindow = errors.New("cancellation window has passed")
)

// BookingRepository определяет методы для работы с бронированиями в хранилище.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, f models.BookingFilter) ([]*models.Booking, int, error)
	UserBookingStats(ctx context.Context, userID string) (*models.BookingStats, error)
	UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, string, error)
	CancelBooking(ctx context.Context, id, userID string) (*models.Booking, error)
	BookingEvent(ctx context.Context, id string) (*models.BookingEvent, error)
	GetCar(ctx context.Context, id string) (*models.Car, error)
}

// SettingReader источник настроек компании.
type SettingReader interface {
	Get(ctx context.Context) (*models.Setting, error)
}

// Publisher публикует события о смене статуса бронирования.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event models.BookingEvent) error
}

// Page результат постраничной выборки.
type Page struct {
	Bookings   []*models.Booking    `json:"bookings"`
	Pagination models.Pagination    `json:"pagination"`
	Stats      *models.BookingStats `json:"stats,omitempty"`
}

// BookingService реализует бизнес-логику бронирований.
type BookingService struct {
	repo      BookingRepository
	settings  SettingReader
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewBookingService создает новый экземпляр BookingService. publisher может быть nil.
func NewBookingService(repo BookingRepository, settings SettingReader, publisher Publisher, log *slog.Logger) *BookingService {
	return &BookingService{
		repo:      repo,
		settings:  settings,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Create бронирует автомобиль на период [start, end).
// Цена считается как число суток, округленное вверх, умноженное на цену за сутки.
func (s *BookingService) Create(ctx context.Context, userID, carID string, start, end time.Time, notes string) (*models.Booking, error) {
	const op = "services.booking.Create"

	if !start.After(s.now()) {
		return nil, ErrStartNotInFuture
	}
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}

	car, err := s.repo.GetCar(ctx, carID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !car.IsAvailable {
		return nil, ErrCarUnavailable
	}

	booking, err := s.repo.CreateBooking(ctx, models.Booking{
		UserID:     userID,
		CarID:      carID,
		StartDate:  start.UTC(),
		EndDate:    end.UTC(),
		TotalPrice: days.Price(start, end, car.PricePerDay),
		Notes:      notes,
	})
	if errors.Is(err, storage.ErrConflict) {
		return nil, ErrDatesTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("booking created", slog.String("booking_id", booking.ID), slog.String("car_id", carID))
	s.publish(ctx, booking.ID, "")
	return booking, nil
}

// My возвращает бронирования пользователя, при withStats добавляет статистику.
func (s *BookingService) My(ctx context.Context, userID, status string, page, limit int, withStats bool) (*Page, error) {
	const op = "services.booking.My"

	result, err := s.list(ctx, models.BookingFilter{UserID: userID, Status: status}, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if withStats {
		stats, err := s.repo.UserBookingStats(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Stats = stats
	}
	return result, nil
}

// List возвращает все бронирования для администратора.
func (s *BookingService) List(ctx context.Context, userID, status string, page, limit int) (*Page, error) {
	const op = "services.booking.List"

	result, err := s.list(ctx, models.BookingFilter{UserID: userID, Status: status}, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *BookingService) list(ctx context.Context, f models.BookingFilter, page, limit int) (*Page, error) {
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

	bookings, total, err := s.repo.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Page{Bookings: bookings, Pagination: models.NewPagination(page, limit, total)}, nil
}

// Read возвращает бронирование владельцу или администратору.
// Чужое бронирование для обычного пользователя выглядит как несуществующее.
func (s *BookingService) Read(ctx context.Context, id, userID string, isAdmin bool) (*models.Booking, error) {
	const op = "services.booking.Read"

	b, err := s.repo.GetBooking(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !isAdmin && b.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// UpdateStatus выставляет статус от имени администратора.
func (s *BookingService) UpdateStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	const op = "services.booking.UpdateStatus"

	if !slices.Contains(models.AdminBookingStatuses, status) {
		return nil, ErrInvalidStatus
	}
	b, previous, err := s.repo.UpdateBookingStatus(ctx, id, status)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("booking status updated",
		slog.String("booking_id", id),
		slog.String("from", previous),
		slog.String("to", status),
	)
	if previous != status {
		s.publish(ctx, id, previous)
	}
	return b, nil
}

// Cancel отменяет бронирование пользователя, если оно pending или confirmed
// и до начала аренды больше окна отмены из настроек.
func (s *BookingService) Cancel(ctx context.Context, id, userID string) (*models.Booking, error) {
	const op = "services.booking.Cancel"

	b, err := s.Read(ctx, id, userID, false)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingPending && b.Status != models.BookingConfirmed {
		return nil, ErrNotCancellable
	}

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	window := time.Duration(st.CancellationWindowHours) * time.Hour
	if s.now().Add(window).After(b.StartDate) {
		return nil, ErrCancellationWindow
	}

	cancelled, err := s.repo.CancelBooking(ctx, id, userID)
	if errors.Is(err, storage.ErrConflict) {
		return nil, ErrNotCancellable
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("booking cancelled by user", slog.String("booking_id", id))
	s.publish(ctx, id, b.Status)
	return cancelled, nil
}

// publish отправляет событие. Ошибки только логируются: статус уже сохранен.
func (s *BookingService) publish(ctx context.Context, id, previous string) {
	if s.publisher == nil {
		return
	}
	event, err := s.repo.BookingEvent(ctx, id)
	if err != nil {
		s.log.Warn("failed to load booking event", slog.String("booking_id", id), sl.Err(err))
		return
	}
	event.PreviousStatus = previous
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.PublishBookingEvent(ctx, *event); err != nil {
		s.log.Warn("failed to publish booking event", slog.String("booking_id", id), sl.Err(err))
	}
}
