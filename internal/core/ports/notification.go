package ports

import (
	"context"

	"github.com/terangafund/citizen-projects/internal/core/domain"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// ListByUser returns notifications newest-first, at most limit of them.
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead flips the read flag. Marking an already-read notification is
	// a no-op; domain.ErrNotificationNotFound is returned only when no
	// notification with that id belongs to the user.
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// Delivery is one out-of-band message handed to the delivery queue.
type Delivery struct {
	UserID  string
	Address string
	Subject string
	Body    string
}

// DeliveryQueue accepts deliveries for asynchronous, best-effort dispatch.
// Enqueue never blocks on or reports delivery failures.
type DeliveryQueue interface {
	Enqueue(d Delivery)
}

// Mailer is the external delivery channel. Failures are logged by callers,
// never propagated to the operation that triggered the notification.
type Mailer interface {
	Deliver(ctx context.Context, address, subject, body string) error
}

// Notifier records an in-app notification and forwards it for out-of-band
// delivery. It is the only write entry point for notifications.
type Notifier interface {
	Notify(ctx context.Context, userID string, t domain.NotificationType, title, message string, data map[string]any) error
}

// NotificationService is the full dispatcher surface: Notifier plus the
// user-facing read/ack operations.
type NotificationService interface {
	Notifier
	List(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}
