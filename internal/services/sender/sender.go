// Package services отправляет пользователям письма о смене статуса бронирования.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/car-rental/internal/lib/sl"
	"github.com/magabrotheeeer/car-rental/internal/lib/smtp"
	"github.com/magabrotheeeer/car-rental/internal/models"
)

// Transport открывает SMTP-сессии от имени отправителя.
type Transport interface {
	smtp.Dialer
	From() string
}

// SenderService превращает события бронирований в письма.
type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport Transport, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// HandleBookingEvent обрабатывает одно сообщение из очереди booking.status.
func (s *SenderService) HandleBookingEvent(body []byte) error {
	const op = "services.sender.HandleBookingEvent"

	var event models.BookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if event.UserEmail == "" {
		s.log.Warn("booking event without recipient", slog.String("booking_id", event.BookingID))
		return nil
	}

	msg := Render(event)
	if err := smtp.Send(s.transport, s.transport.From(), msg); err != nil {
		s.log.Error("failed to send email", slog.String("booking_id", event.BookingID), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("email sent successfully",
		slog.String("booking_id", event.BookingID),
		slog.String("status", event.Status),
	)
	return nil
}

// Render собирает письмо для события.
func Render(e models.BookingEvent) smtp.Message {
	const layout = "02.01.2006 15:04"
	period := fmt.Sprintf("%s - %s", e.StartDate.Format(layout), e.EndDate.Format(layout))

	var subject, text string
	switch e.Status {
	case models.BookingPending:
		subject = "Бронирование создано"
		text = fmt.Sprintf("Ваше бронирование %s на период %s создано и ожидает подтверждения.", e.CarTitle, period)
	case models.BookingConfirmed:
		subject = "Бронирование подтверждено"
		text = fmt.Sprintf("Бронирование %s на период %s подтверждено.", e.CarTitle, period)
	case models.BookingActive:
		subject = "Аренда началась"
		text = fmt.Sprintf("Аренда %s началась. Дата возврата: %s.", e.CarTitle, e.EndDate.Format(layout))
	case models.BookingNeedToBeReturned:
		subject = "Пора вернуть автомобиль"
		text = fmt.Sprintf("Срок аренды %s истек %s. Пожалуйста, верните автомобиль.", e.CarTitle, e.EndDate.Format(layout))
	case models.BookingCompleted:
		subject = "Аренда завершена"
		text = fmt.Sprintf("Аренда %s завершена. Спасибо, что выбрали нас!", e.CarTitle)
	case models.BookingCancelled:
		subject = "Бронирование отменено"
		text = fmt.Sprintf("Бронирование %s на период %s отменено.", e.CarTitle, period)
	default:
		subject = "Статус бронирования изменен"
		text = fmt.Sprintf("Статус бронирования %s изменен на %q.", e.CarTitle, e.Status)
	}

	return smtp.Message{
		To:      e.UserEmail,
		Subject: subject,
		Body:    fmt.Sprintf("Здравствуйте, %s!\n\n%s\n", e.UserName, text),
	}
}
