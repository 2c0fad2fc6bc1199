package eventbus

import "time"

// Типы событий жизненного цикла записи
const (
	EventAppointmentCreated  = "appointment.created"
	EventAppointmentUpdated  = "appointment.updated"
	EventAppointmentCanceled = "appointment.canceled"
)

// Event событие для публикации в шину
type Event struct {
	ID         string // event_id, уникален для каждого события
	Type       string
	Key        string // ключ партиционирования: id записи
	OccurredAt time.Time
	Payload    interface{}
}

// Config настройки публикации в Kafka
type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}
