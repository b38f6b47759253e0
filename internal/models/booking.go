package models

import "time"

// Статусы бронирования.
const (
	BookingPending          = "pending"
	BookingConfirmed        = "confirmed"
	BookingActive           = "active"
	BookingNeedToBeReturned = "need to be returned"
	BookingCompleted        = "completed"
	BookingCancelled        = "cancelled"
)

// Политика для pending бронирований, у которых прошла дата окончания.
const (
	// OverduePendingReturn переводит их в need to be returned, как и остальные.
	OverduePendingReturn = "return"
	// OverduePendingCancel отменяет их.
	OverduePendingCancel = "cancel"
)

// Статусы оплаты бронирования.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// BookingStatuses все статусы бронирования.
var BookingStatuses = []string{
	BookingPending, BookingConfirmed, BookingActive,
	BookingNeedToBeReturned, BookingCompleted, BookingCancelled,
}

// AdminBookingStatuses статусы, которые администратор может выставить вручную.
// active и need to be returned выставляет только фоновая сверка.
var AdminBookingStatuses = []string{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled}

// Booking бронирование автомобиля пользователем.
type Booking struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	CarID         string    `json:"carId"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	TotalPrice    int64     `json:"totalPrice"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Car           *CarBrief `json:"car,omitempty"`
}

// CarBrief краткие сведения об автомобиле внутри бронирования.
type CarBrief struct {
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	PricePerDay int64  `json:"pricePerDay"`
	Image       string `json:"image,omitempty"`
}

// BookingFilter параметры выборки бронирований.
type BookingFilter struct {
	UserID string
	Status string
	Limit  int
	Offset int
}

// BookingStats агрегированная статистика бронирований пользователя.
type BookingStats struct {
	Total            int   `json:"total"`
	Pending          int   `json:"pending"`
	Confirmed        int   `json:"confirmed"`
	Active           int   `json:"active"`
	NeedToBeReturned int   `json:"needToBeReturned"`
	Completed        int   `json:"completed"`
	Cancelled        int   `json:"cancelled"`
	TotalSpent       int64 `json:"totalSpent"`
}

// Pagination сведения о странице выборки.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination считает количество страниц.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
