package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/car-rental/internal/models"
	"github.com/magabrotheeeer/car-rental/internal/storage"
)

const bookingColumns = `b.id, b.user_id, b.car_id, b.start_date, b.end_date, b.total_price,
			      b.status, b.payment_status, b.notes, b.created_at, b.updated_at,
			      c.brand, c.model, c.price_per_day, c.images[1]`

const bookingFrom = ` FROM bookings b JOIN cars c ON c.id = b.car_id`

// статусы, при которых автомобиль считается занятым на период бронирования
const busyStatuses = `('pending', 'confirmed', 'active', 'need to be returned')`

// scanBooking читает колонки bookingColumns, затем extra.
func scanBooking(row interface{ Scan(...any) error }, extra ...any) (*models.Booking, error) {
	var (
		b     models.Booking
		car   models.CarBrief
		image sql.NullString
	)
	dest := []any{&b.ID, &b.UserID, &b.CarID, &b.StartDate, &b.EndDate, &b.TotalPrice,
		&b.Status, &b.PaymentStatus, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
		&car.Brand, &car.Model, &car.PricePerDay, &image}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	car.Image = image.String
	b.Car = &car
	return &b, nil
}

// CreateBooking сохраняет бронирование, если автомобиль свободен на эти даты.
// Пересечение с действующим бронированием возвращает storage.ErrConflict.
func (s *Storage) CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	const op = "storage.CreateBooking"
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

	// Сериализуем создание бронирований одного автомобиля до конца транзакции.
	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, booking.CarID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `WITH created AS (
			      INSERT INTO bookings (user_id, car_id, start_date, end_date, total_price, notes)
			      SELECT $1::uuid, $2::uuid, $3::timestamptz, $4::timestamptz, $5::bigint, $6::text
			      WHERE NOT EXISTS (
			          SELECT 1 FROM bookings
			          WHERE car_id = $2::uuid
			            AND status IN ` + busyStatuses + `
			            AND start_date < $4::timestamptz
			            AND end_date > $3::timestamptz
			      )
			      RETURNING *
			  )
			  SELECT ` + bookingColumns + ` FROM created b JOIN cars c ON c.id = b.car_id`
	created, err := scanBooking(tx.QueryRowContext(ctx, query,
		booking.UserID, booking.CarID, booking.StartDate, booking.EndDate, booking.TotalPrice, booking.Notes))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}
	if err != nil {
		return nil, wrapErr(op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetBooking возвращает бронирование вместе с краткими данными автомобиля.
func (s *Storage) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	const op = "storage.GetBooking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	b, err := scanBooking(s.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+bookingFrom+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return b, nil
}

// ListBookings возвращает страницу бронирований и их общее количество.
// Пустой UserID в фильтре означает все бронирования.
func (s *Storage) ListBookings(ctx context.Context, f models.BookingFilter) ([]*models.Booking, int, error) {
	const op = "storage.ListBookings"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	limit, offset := pageArgs(f.Limit, f.Offset)
	where := ` WHERE ($1 = '' OR b.user_id::text = $1) AND ($2 = '' OR b.status = $2)`

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*)`+bookingFrom+where, f.UserID, f.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + bookingColumns + bookingFrom + where + `
			  ORDER BY b.created_at DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, f.UserID, f.Status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, b)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// UserBookingStats считает бронирования пользователя по статусам.
func (s *Storage) UserBookingStats(ctx context.Context, userID string) (*models.BookingStats, error) {
	const op = "storage.UserBookingStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*),
			      COUNT(*) FILTER (WHERE status = 'pending'),
			      COUNT(*) FILTER (WHERE status = 'confirmed'),
			      COUNT(*) FILTER (WHERE status = 'active'),
			      COUNT(*) FILTER (WHERE status = 'need to be returned'),
			      COUNT(*) FILTER (WHERE status = 'completed'),
			      COUNT(*) FILTER (WHERE status = 'cancelled'),
			      COALESCE(SUM(total_price) FILTER (WHERE payment_status = 'paid'), 0)
			  FROM bookings
			  WHERE user_id = $1`
	var st models.BookingStats
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&st.Total, &st.Pending, &st.Confirmed,
		&st.Active, &st.NeedToBeReturned, &st.Completed, &st.Cancelled, &st.TotalSpent); err != nil {
		return nil, wrapErr(op, err)
	}
	return &st, nil
}

// UpdateBookingStatus выставляет статус и возвращает бронирование с предыдущим статусом.
func (s *Storage) UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, string, error) {
	const op = "storage.UpdateBookingStatus"
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	return s.setStatus(ctx, op, id, status, "")
}

// CancelBooking отменяет бронирование пользователя, пока оно pending или confirmed.
// Иначе возвращает storage.ErrConflict.
func (s *Storage) CancelBooking(ctx context.Context, id, userID string) (*models.Booking, error) {
	const op = "storage.CancelBooking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	b, _, err := s.setStatus(ctx, op, id, models.BookingCancelled,
		`AND b.user_id = $3 AND b.status IN ('pending', 'confirmed')`, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}
	return b, err
}

func (s *Storage) setStatus(ctx context.Context, op, id, status, guard string, args ...any) (*models.Booking, string, error) {
	query := `WITH moved AS (
			      UPDATE bookings b
			      SET status = $2, updated_at = NOW()
			      FROM bookings old
			      WHERE b.id = old.id AND b.id = $1 ` + guard + `
			      RETURNING b.*, old.status AS previous_status
			  )
			  SELECT ` + bookingColumns + `, b.previous_status FROM moved b JOIN cars c ON c.id = b.car_id`

	var previous string
	row := s.DB.QueryRowContext(ctx, query, append([]any{id, status}, args...)...)
	b, err := scanBooking(row, &previous)
	if err != nil {
		return nil, "", wrapErr(op, err)
	}
	return b, previous, nil
}

// ActivateConfirmed переводит confirmed бронирования, период которых включает now, в active.
func (s *Storage) ActivateConfirmed(ctx context.Context, now time.Time) ([]models.BookingEvent, error) {
	const op = "storage.ActivateConfirmed"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	events, err := transition(ctx, s.DB, now, models.BookingActive,
		`b.status = 'confirmed' AND b.start_date <= $2 AND b.end_date >= $2`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// MarkOverdue переводит бронирования с прошедшей датой окончания в need to be returned.
// Уже возвращаемые, отмененные и завершенные не трогаются. При политике cancel
// просроченные pending бронирования отменяются, а не ждут возврата.
func (s *Storage) MarkOverdue(ctx context.Context, now time.Time, pendingPolicy string) ([]models.BookingEvent, error) {
	const op = "storage.MarkOverdue"
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

	var events []models.BookingEvent
	if pendingPolicy == models.OverduePendingCancel {
		cancelled, err := transition(ctx, tx, now, models.BookingCancelled,
			`b.status = 'pending' AND b.end_date < $2`)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = append(events, cancelled...)
	}

	overdue, err := transition(ctx, tx, now, models.BookingNeedToBeReturned,
		`b.end_date < $2 AND b.status NOT IN ('need to be returned', 'cancelled', 'completed')`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	events = append(events, overdue...)

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// transition одним запросом меняет статус у всех бронирований под условием cond
// и возвращает события для уведомлений. В cond $2 это now.
func transition(ctx context.Context, q querier, now time.Time, status, cond string) ([]models.BookingEvent, error) {
	query := `WITH moved AS (
			      UPDATE bookings b
			      SET status = $1, updated_at = $2
			      FROM bookings old
			      WHERE b.id = old.id AND ` + cond + `
			      RETURNING b.id, b.user_id, b.car_id, b.start_date, b.end_date, old.status AS previous_status
			  )
			  SELECT m.id, u.email, u.name, c.brand || ' ' || c.model, m.previous_status,
			         m.start_date, m.end_date
			  FROM moved m
			  JOIN users u ON u.id = m.user_id
			  JOIN cars c ON c.id = m.car_id`
	rows, err := q.QueryContext(ctx, query, status, now)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var events []models.BookingEvent
	for rows.Next() {
		e := models.BookingEvent{Status: status, OccurredAt: now}
		if err := rows.Scan(&e.BookingID, &e.UserEmail, &e.UserName, &e.CarTitle,
			&e.PreviousStatus, &e.StartDate, &e.EndDate); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// BookingEvent собирает событие о бронировании для уведомления пользователя.
func (s *Storage) BookingEvent(ctx context.Context, id string) (*models.BookingEvent, error) {
	const op = "storage.BookingEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT b.id, u.email, u.name, c.brand || ' ' || c.model, b.status, b.start_date, b.end_date
			  FROM bookings b
			  JOIN users u ON u.id = b.user_id
			  JOIN cars c ON c.id = b.car_id
			  WHERE b.id = $1`
	var e models.BookingEvent
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&e.BookingID, &e.UserEmail, &e.UserName,
		&e.CarTitle, &e.Status, &e.StartDate, &e.EndDate); err != nil {
		return nil, wrapErr(op, err)
	}
	return &e, nil
}

// pageArgs ограничивает limit и offset разумными значениями.
func pageArgs(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
