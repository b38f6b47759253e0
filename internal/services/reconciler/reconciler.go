// Package services содержит фоновую сверку статусов бронирований со временем.
//
// Прогон применяет два правила по очереди:
//  1. confirmed бронирования, период которых уже начался, становятся active;
//  2. бронирования с прошедшей датой окончания становятся need to be returned
//     (кроме отмененных, завершенных и уже ожидающих возврата).
//
// Оба правила идемпотентны: повторный прогон с тем же now ничего не меняет.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

// BookingRepository методы хранилища, нужные сверке.
type BookingRepository interface {
	ActivateConfirmed(ctx context.Context, now time.Time) ([]models.BookingEvent, error)
	MarkOverdue(ctx context.Context, now time.Time, pendingPolicy string) ([]models.BookingEvent, error)
}

// Publisher публикует события о смене статуса.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event models.BookingEvent) error
}

// Observer учитывает результаты прогонов.
type Observer interface {
	ObserveTransitions(to string, n int)
	ObserveRun(err error)
}

// Result количество бронирований, переведенных за прогон, по целевому статусу.
type Result struct {
	Activated int
	Overdue   int
	Cancelled int
}

// ReconcilerService сверяет статусы бронирований по расписанию.
type ReconcilerService struct {
	repo          BookingRepository
	publisher     Publisher
	observer      Observer
	pendingPolicy string
	log           *slog.Logger
}

// NewReconcilerService создает сверку. publisher и observer могут быть nil.
func NewReconcilerService(repo BookingRepository, publisher Publisher, observer Observer, pendingPolicy string, log *slog.Logger) *ReconcilerService {
	if pendingPolicy == "" {
		pendingPolicy = models.OverduePendingReturn
	}
	return &ReconcilerService{
		repo:          repo,
		publisher:     publisher,
		observer:      observer,
		pendingPolicy: pendingPolicy,
		log:           log,
	}
}

// Reconcile выполняет один прогон. Ошибка первого правила не мешает второму,
// ошибки обоих объединяются.
func (s *ReconcilerService) Reconcile(ctx context.Context, now time.Time) (Result, error) {
	const op = "services.reconciler.Reconcile"
	var (
		res  Result
		errs []error
	)

	activated, err := s.repo.ActivateConfirmed(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: activate: %w", op, err))
	}
	overdue, err := s.repo.MarkOverdue(ctx, now, s.pendingPolicy)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: overdue: %w", op, err))
	}

	events := append(activated, overdue...)
	for _, e := range events {
		switch e.Status {
		case models.BookingActive:
			res.Activated++
		case models.BookingNeedToBeReturned:
			res.Overdue++
		case models.BookingCancelled:
			res.Cancelled++
		}
		s.publish(ctx, e)
	}

	err = errors.Join(errs...)
	if s.observer != nil {
		s.observer.ObserveTransitions(models.BookingActive, res.Activated)
		s.observer.ObserveTransitions(models.BookingNeedToBeReturned, res.Overdue)
		s.observer.ObserveTransitions(models.BookingCancelled, res.Cancelled)
		s.observer.ObserveRun(err)
	}

	if len(events) > 0 {
		s.log.Info("booking statuses reconciled",
			slog.Int("activated", res.Activated),
			slog.Int("overdue", res.Overdue),
			slog.Int("cancelled", res.Cancelled),
		)
	}
	return res, err
}

func (s *ReconcilerService) publish(ctx context.Context, e models.BookingEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBookingEvent(ctx, e); err != nil {
		s.log.Warn("failed to publish booking event", slog.String("booking_id", e.BookingID), sl.Err(err))
	}
}

// Job оборачивает прогон в задачу cron. Время прогона берется из clock.
func (s *ReconcilerService) Job(ctx context.Context, clock func() time.Time) cron.Job {
	return cron.FuncJob(func() {
		if _, err := s.Reconcile(ctx, clock().UTC()); err != nil {
			s.log.Error("reconcile run failed", sl.Err(err))
		}
	})
}
