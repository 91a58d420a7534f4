package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/terangafund/citizen-projects/internal/api/metrics"
	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

const defaultNotificationLimit = 100

// NotificationService persists in-app notifications and hands delivery off to
// the queue. The persisted record is the source of truth: a delivery outage
// never rolls back or fails the triggering operation.
type NotificationService struct {
	repo   ports.NotificationRepository
	users  ports.UserRepository
	queue  ports.DeliveryQueue
	limit  int
	logger zerolog.Logger
}

func NewNotificationService(
	repo ports.NotificationRepository,
	users ports.UserRepository,
	queue ports.DeliveryQueue,
	limit int,
	logger zerolog.Logger,
) *NotificationService {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	return &NotificationService{repo: repo, users: users, queue: queue, limit: limit, logger: logger}
}

// Notify records the notification, then enqueues the email copy.
func (s *NotificationService) Notify(ctx context.Context, userID string, t domain.NotificationType, title, message string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      t,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return err
	}
	metrics.NotificationsCreatedTotal.WithLabelValues(string(t)).Inc()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("cannot resolve address, skipping email delivery")
		return nil
	}
	s.queue.Enqueue(ports.Delivery{
		UserID:  userID,
		Address: user.Email,
		Subject: title,
		Body:    message,
	})
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, s.limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead is idempotent: repeating it has no further effect and no error.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead is idempotent for the same reason.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}
