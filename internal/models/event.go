package models

import "time"

const (
	// EventUserRegistered публикуется после успешной регистрации.
	EventUserRegistered = "user.registered"
	// EventDashboardSaved публикуется после каждой успешной записи дашборда.
	EventDashboardSaved = "dashboard.saved"
)

// Event — уведомление о событии для внешних потребителей (очередь RabbitMQ).
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}
