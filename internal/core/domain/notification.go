package domain

import "time"

// NotificationKind selects how a notification is rendered.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindWarning NotificationKind = "warning"
	KindInfo    NotificationKind = "info"
)

const (
	DefaultNotificationDuration = 5000 * time.Millisecond
	NotificationDedupeWindow    = time.Second
)

// Notification is a transient message queued for a session.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	Duration  time.Duration    `json:"-"`
	AutoClose bool             `json:"autoClose"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NotificationInput carries a request to notify. Zero Duration and nil
// AutoClose take the defaults (5s, auto-close).
type NotificationInput struct {
	Kind      NotificationKind
	Title     string
	Message   string
	Duration  time.Duration
	AutoClose *bool
}
