package models

import "time"

// Notification types.
const (
	NotificationPrivateInvite     = "private_invite"
	NotificationRSVPReceived      = "rsvp_received"
	NotificationRateFunction      = "rate_function"
	NotificationFunctionCancelled = "function_cancelled"
)

// Notification is an in-app message to one user.
type Notification struct {
	ID             string            `bson:"id" json:"notification_id"`
	UserID         string            `bson:"user_id" json:"user_id"`
	Type           string            `bson:"type" json:"type"`
	Title          string            `bson:"title" json:"title"`
	Message        string            `bson:"message" json:"message"`
	EventID        string            `bson:"event_id,omitempty" json:"event_id,omitempty"`
	EventName      string            `bson:"event_name,omitempty" json:"event_name,omitempty"`
	SenderID       string            `bson:"sender_id,omitempty" json:"sender_id,omitempty"`
	SenderName     string            `bson:"sender_name,omitempty" json:"sender_name,omitempty"`
	Read           bool              `bson:"read" json:"read"`
	CreatedAt      time.Time         `bson:"created_at" json:"created_at"`
	ExpiresAt      *time.Time        `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	ActionRequired bool              `bson:"action_required" json:"action_required"`
	Metadata       map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// NotificationList is the response for a user's inbox.
type NotificationList struct {
	UserID              string         `json:"user_id"`
	Notifications       []Notification `json:"notifications"`
	Count               int            `json:"count"`
	UnreadCount         int            `json:"unread_count"`
	ActionRequiredCount int            `json:"action_required_count"`
}

// PushPayload is the queued push delivery for one notification.
type PushPayload struct {
	UserID         string            `json:"userId"`
	NotificationID string            `json:"notificationId"`
	Type           string            `json:"type"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Data           map[string]string `json:"data,omitempty"`
}
