package rabbitmq

// Топология событий бронирований.
const (
	BookingsExchange        = "bookings"
	BookingStatusQueue      = "booking.status"
	BookingStatusRoutingKey = "status"
)

// QueueConfig очередь и ключ маршрутизации, которым она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetBookingQueues возвращает очереди, которые нужны сервисам уведомлений.
func GetBookingQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: BookingStatusQueue, RoutingKey: BookingStatusRoutingKey},
	}
}
