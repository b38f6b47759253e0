package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/car-rental/internal/models"
	"github.com/magabrotheeeer/car-rental/internal/storage"
)

const paymentColumns = `id, user_id, booking_id, amount, method, status, verified_at, verified_by,
			      rejected_at, rejected_by, rejection_reason, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	var (
		p                      models.Payment
		verifiedAt, rejectedAt sql.NullTime
		verifiedBy, rejectedBy sql.NullString
		reason                 sql.NullString
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.BookingID, &p.Amount, &p.Method, &p.Status,
		&verifiedAt, &verifiedBy, &rejectedAt, &rejectedBy, &reason, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.VerifiedAt = nullTime(verifiedAt)
	p.VerifiedBy = nullString(verifiedBy)
	p.RejectedAt = nullTime(rejectedAt)
	p.RejectedBy = nullString(rejectedBy)
	p.RejectionReason = nullString(reason)
	return &p, nil
}

// CreatePayment сохраняет платеж пользователя по бронированию в статусе pending.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (*models.Payment, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_id, booking_id, amount, method)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + paymentColumns
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query,
		payment.UserID, payment.BookingID, payment.Amount, payment.Method))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return p, nil
}

// GetPayment возвращает платеж по ID.
func (s *Storage) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	p, err := scanPayment(s.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return p, nil
}

// ListPayments возвращает платежи, отфильтрованные по пользователю и статусу.
func (s *Storage) ListPayments(ctx context.Context, userID, status string, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	limit, offset = pageArgs(limit, offset)
	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE ($1 = '' OR user_id::text = $1) AND ($2 = '' OR status = $2)
			  ORDER BY created_at DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, userID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// VerifyPayment применяет решение администратора к pending платежу и
// переносит результат в payment_status бронирования. Уже проверенный платеж
// возвращает storage.ErrConflict, неизвестный storage.ErrNotFound.
func (s *Storage) VerifyPayment(ctx context.Context, d models.PaymentDecision) (*models.Payment, error) {
	const op = "storage.VerifyPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var (
		query         string
		args          []any
		bookingStatus string
	)
	if d.Approve {
		query = `UPDATE payments
				 SET status = 'completed', verified_at = $2, verified_by = $3, updated_at = $2
				 WHERE id = $1 AND status = 'pending'
				 RETURNING ` + paymentColumns
		args = []any{d.PaymentID, d.At, d.AdminID}
		bookingStatus = models.PaymentStatusPaid
	} else {
		query = `UPDATE payments
				 SET status = 'failed', rejected_at = $2, rejected_by = $3, rejection_reason = $4, updated_at = $2
				 WHERE id = $1 AND status = 'pending'
				 RETURNING ` + paymentColumns
		args = []any{d.PaymentID, d.At, d.AdminID, d.Reason}
		bookingStatus = models.PaymentStatusFailed
	}

	p, err := scanPayment(tx.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		// Платеж либо не существует, либо уже проверен.
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`,
			d.PaymentID).Scan(&exists); err != nil {
			return nil, wrapErr(op, err)
		}
		if !exists {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}
	if err != nil {
		return nil, wrapErr(op, err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE bookings SET payment_status = $2, updated_at = $3 WHERE id = $1`,
		p.BookingID, bookingStatus, d.At); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
