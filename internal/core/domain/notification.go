package domain

import "time"

// NotificationType tags a notification with the event that produced it.
type NotificationType string

const (
	NotifProjectSubmitted   NotificationType = "project_submitted"
	NotifProjectValidated   NotificationType = "project_validated"
	NotifProjectApproved    NotificationType = "project_approved"
	NotifProjectRejected    NotificationType = "project_rejected"
	NotifDocumentsRequested NotificationType = "documents_requested"
	NotifNewComment         NotificationType = "new_comment"
	NotifAccountVerified    NotificationType = "account_verified"
	NotifPasswordReset      NotificationType = "password_reset"
)

// Notification is an in-app message addressed to one user. The persisted
// record is the source of truth; email delivery is best effort.
type Notification struct {
	ID        string           `json:"id" bson:"_id"`
	UserID    string           `json:"user_id" bson:"user_id"`
	Type      NotificationType `json:"type" bson:"type"`
	Title     string           `json:"title" bson:"title"`
	Message   string           `json:"message" bson:"message"`
	Data      map[string]any   `json:"data" bson:"data"`
	IsRead    bool             `json:"is_read" bson:"is_read"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
}
