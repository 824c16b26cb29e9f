package domain

import "time"

// DefaultFreshness is how long after delivery a notification still counts
// as a new alert.
const DefaultFreshness = 144 * time.Hour

// NotificationState is derived from the delivery time, never stored.
type NotificationState string

const (
	NotificationProgrammed NotificationState = "programmed"
	NotificationDueFresh   NotificationState = "due_fresh"
	NotificationDueStale   NotificationState = "due_stale"
)

// Notification is a broadcast message. An empty Audience reaches every role.
type Notification struct {
	NotificationID int64     `json:"id" dynamodbav:"notification_id"`
	Title          string    `json:"title" dynamodbav:"title"`
	Message        string    `json:"message" dynamodbav:"message"`
	DeliverAt      time.Time `json:"deliver_at" dynamodbav:"deliver_at"`
	Audience       string    `json:"audience,omitempty" dynamodbav:"audience"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

// ClassifyNotification places deliverAt relative to now: programmed while
// in the future, due-and-fresh up to window after delivery, stale beyond.
func ClassifyNotification(deliverAt, now time.Time, window time.Duration) NotificationState {
	if deliverAt.After(now) {
		return NotificationProgrammed
	}
	if now.Sub(deliverAt) > window {
		return NotificationDueStale
	}
	return NotificationDueFresh
}

// NotificationView is a notification with its state at evaluation time.
type NotificationView struct {
	Notification
	State NotificationState `json:"state"`
}

type NotificationInput struct {
	Title     string    `json:"title" validate:"required,max=200"`
	Message   string    `json:"message" validate:"required,max=4000"`
	DeliverAt time.Time `json:"deliver_at" validate:"required"`
	Audience  string    `json:"audience" validate:"omitempty,oneof=admin trainer client"`
}
