package models

import "time"

// Статусы платежа. completed и failed терминальные.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Способы оплаты.
const (
	MethodCard     = "card"
	MethodCash     = "cash"
	MethodTransfer = "transfer"
)

// DefaultRejectionReason причина отказа, если администратор её не указал.
const DefaultRejectionReason = "Payment was rejected by administrator"

// Payment платёж по бронированию, ожидающий проверки администратором.
type Payment struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	BookingID       string     `json:"bookingId"`
	Amount          int64      `json:"amount"`
	Method          string     `json:"method"`
	Status          string     `json:"status"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	VerifiedBy      *string    `json:"verifiedBy,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectedBy      *string    `json:"rejectedBy,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// IsFinal сообщает, что платёж уже проверен.
func (p Payment) IsFinal() bool {
	return p.Status == PaymentCompleted || p.Status == PaymentFailed
}

// PaymentDecision решение администратора по платежу.
type PaymentDecision struct {
	PaymentID string
	AdminID   string
	Approve   bool
	Reason    string
	At        time.Time
}
