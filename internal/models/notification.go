package models

import "time"

// NotificationKind classifies a toast-style event.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "SUCCESS"
	NotificationError   NotificationKind = "ERROR"
	NotificationInfo    NotificationKind = "INFO"
)

// Notification is a side-effect event surfaced after a mutation.
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}
