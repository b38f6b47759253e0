package models

import "time"

// BookingEvent сообщение о смене статуса бронирования, публикуется в RabbitMQ.
type BookingEvent struct {
	BookingID      string    `json:"booking_id"`
	UserEmail      string    `json:"user_email"`
	UserName       string    `json:"user_name"`
	CarTitle       string    `json:"car_title"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Status         string    `json:"status"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	OccurredAt     time.Time `json:"occurred_at"`
}
