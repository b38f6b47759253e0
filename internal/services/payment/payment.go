// Package services реализует ручную проверку платежей по бронированиям.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/car-rental/internal/models"
	"github.com/magabrotheeeer/car-rental/internal/storage"
)

var (
	// ErrBookingNotFound бронирование не найдено или принадлежит другому пользователю.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrBookingClosed по отмененному бронированию платить нельзя.
	ErrBookingClosed = errors.New("booking is cancelled")
	// ErrAlreadyPaid бронирование уже оплачено.
	ErrAlreadyPaid = errors.New("booking is already paid")
	// ErrPaymentNotFound платеж не найден.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentFinalized платеж уже подтвержден или отклонен.
	ErrPaymentFinalized = errors.New("payment is already verified")
)

// PaymentRepository определяет методы хранилища для платежей.
type PaymentRepository interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	CreatePayment(ctx context.Context, payment models.Payment) (*models.Payment, error)
	ListPayments(ctx context.Context, userID, status string, limit, offset int) ([]*models.Payment, error)
	VerifyPayment(ctx context.Context, d models.PaymentDecision) (*models.Payment, error)
}

// Observer считает решения по платежам.
type Observer interface {
	ObservePayment(outcome string)
}

// PaymentService реализует бизнес-логику платежей.
type PaymentService struct {
	repo     PaymentRepository
	observer Observer
	log      *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService. observer может быть nil.
func NewPaymentService(repo PaymentRepository, observer Observer, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:     repo,
		observer: observer,
		log:      log,
	}
}

// Create регистрирует платеж по своему бронированию на полную сумму аренды.
func (s *PaymentService) Create(ctx context.Context, userID, bookingID, method string) (*models.Payment, error) {
	const op = "services.payment.Create"

	b, err := s.repo.GetBooking(ctx, bookingID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if b.UserID != userID {
		return nil, ErrBookingNotFound
	}
	if b.Status == models.BookingCancelled {
		return nil, ErrBookingClosed
	}
	if b.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrAlreadyPaid
	}

	p, err := s.repo.CreatePayment(ctx, models.Payment{
		UserID:    userID,
		BookingID: bookingID,
		Amount:    b.TotalPrice,
		Method:    method,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("payment created", slog.String("payment_id", p.ID), slog.String("booking_id", bookingID))
	return p, nil
}

// Verify подтверждает или отклоняет pending платеж. Решение принимается ровно один раз.
func (s *PaymentService) Verify(ctx context.Context, paymentID, adminID string, approve bool, reason string) (*models.Payment, error) {
	const op = "services.payment.Verify"

	reason = strings.TrimSpace(reason)
	if !approve && reason == "" {
		reason = models.DefaultRejectionReason
	}

	p, err := s.repo.VerifyPayment(ctx, models.PaymentDecision{
		PaymentID: paymentID,
		AdminID:   adminID,
		Approve:   approve,
		Reason:    reason,
		At:        time.Now().UTC(),
	})
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, ErrPaymentNotFound
	case errors.Is(err, storage.ErrConflict):
		return nil, ErrPaymentFinalized
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.observer != nil {
		s.observer.ObservePayment(p.Status)
	}
	s.log.Info("payment verified",
		slog.String("payment_id", p.ID),
		slog.String("status", p.Status),
		slog.String("admin_id", adminID),
	)
	return p, nil
}

// List возвращает платежи. Пустой userID означает все платежи.
func (s *PaymentService) List(ctx context.Context, userID, status string, page, limit int) ([]*models.Payment, error) {
	const op = "services.payment.List"

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	payments, err := s.repo.ListPayments(ctx, userID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}
