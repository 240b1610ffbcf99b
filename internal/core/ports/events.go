package ports

import "time"

// UserEvent describes a lifecycle event emitted by the auth service for
// downstream collaborators (notifications, analytics).
type UserEvent struct {
	Name       string
	UserID     string
	Username   string
	Email      string
	OccurredAt time.Time
}

// Event names published by the auth service.
const (
	EventUserRegistered = "user.registered"
)

// EventPublisher decouples the auth service from delivery. Publish must not
// block the request path.
type EventPublisher interface {
	Publish(event UserEvent)
}
