package services_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/car-rental/internal/lib/smtp"
	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/sender"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Dial() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) From() string {
	return m.Called().String(0)
}

type MockSMTPClient struct {
	mock.Mock
	buf bytes.Buffer
}

func (m *MockSMTPClient) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	return nopWriteCloser{&m.buf}, args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	return m.Called().Error(0)
}

func (m *MockSMTPClient) Close() error {
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func eventBody(t *testing.T, e models.BookingEvent) []byte {
	t.Helper()
	body, err := json.Marshal(e)
	require.NoError(t, err)
	return body
}

func TestHandleBookingEvent_SendsEmail(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	svc := services.NewSenderService(transport, newNoopLogger())

	transport.On("From").Return("noreply@rent.uz")
	transport.On("Dial").Return(client, nil).Once()
	client.On("Mail", "noreply@rent.uz").Return(nil).Once()
	client.On("Rcpt", "ali@example.com").Return(nil).Once()
	client.On("Data").Return(nil).Once()
	client.On("Quit").Return(nil).Once()

	err := svc.HandleBookingEvent(eventBody(t, models.BookingEvent{
		BookingID: "b-1",
		UserEmail: "ali@example.com",
		UserName:  "Ali",
		CarTitle:  "Chevrolet Cobalt",
		Status:    models.BookingNeedToBeReturned,
		StartDate: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, err)

	sent := client.buf.String()
	assert.Contains(t, sent, "To: ali@example.com")
	assert.Contains(t, sent, "Subject: Пора вернуть автомобиль")
	assert.Contains(t, sent, "Chevrolet Cobalt")
	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestHandleBookingEvent_InvalidJSON(t *testing.T) {
	transport := new(MockTransport)
	svc := services.NewSenderService(transport, newNoopLogger())

	err := svc.HandleBookingEvent([]byte("{not json"))
	require.Error(t, err)
	transport.AssertNotCalled(t, "Dial")
}

func TestHandleBookingEvent_NoRecipientIsDropped(t *testing.T) {
	transport := new(MockTransport)
	svc := services.NewSenderService(transport, newNoopLogger())

	err := svc.HandleBookingEvent(eventBody(t, models.BookingEvent{BookingID: "b-1", Status: models.BookingActive}))
	assert.NoError(t, err)
	transport.AssertNotCalled(t, "Dial")
}

func TestHandleBookingEvent_DialFailure(t *testing.T) {
	transport := new(MockTransport)
	svc := services.NewSenderService(transport, newNoopLogger())

	transport.On("From").Return("noreply@rent.uz")
	transport.On("Dial").Return(nil, errors.New("connection refused")).Once()

	err := svc.HandleBookingEvent(eventBody(t, models.BookingEvent{
		BookingID: "b-1", UserEmail: "ali@example.com", Status: models.BookingActive,
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRender_Subjects(t *testing.T) {
	cases := map[string]string{
		models.BookingPending:          "Бронирование создано",
		models.BookingConfirmed:        "Бронирование подтверждено",
		models.BookingActive:           "Аренда началась",
		models.BookingNeedToBeReturned: "Пора вернуть автомобиль",
		models.BookingCompleted:        "Аренда завершена",
		models.BookingCancelled:        "Бронирование отменено",
		"unknown":                      "Статус бронирования изменен",
	}
	for status, subject := range cases {
		msg := services.Render(models.BookingEvent{UserEmail: "a@b.c", UserName: "Ali", Status: status})
		assert.Equal(t, subject, msg.Subject, status)
		assert.Equal(t, "a@b.c", msg.To)
		assert.Contains(t, msg.Body, "Здравствуйте, Ali!")
	}
}
