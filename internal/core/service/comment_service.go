package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/terangafund/citizen-projects/internal/core/domain"
	"github.com/terangafund/citizen-projects/internal/core/ports"
)

const defaultCommentLimit = 100

// CommentService handles the comment exchange on projects. Author name and
// role are snapshotted into the comment at creation time.
type CommentService struct {
	comments ports.CommentRepository
	projects ports.ProjectRepository
	notifier ports.Notifier
	limit    int
	logger   zerolog.Logger
}

func NewCommentService(
	comments ports.CommentRepository,
	projects ports.ProjectRepository,
	notifier ports.Notifier,
	limit int,
	logger zerolog.Logger,
) *CommentService {
	if limit <= 0 {
		limit = defaultCommentLimit
	}
	return &CommentService{comments: comments, projects: projects, notifier: notifier, limit: limit, logger: logger}
}

// Add creates an immutable comment. When the author is not the project owner,
// the owner is notified.
func (s *CommentService) Add(ctx context.Context, actor ports.Actor, projectID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: comment content is required", domain.ErrValidation)
	}
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !p.CanRead(actor.Role, actor.ID) {
		return nil, fmt.Errorf("add comment: %w", domain.ErrForbidden)
	}

	c := &domain.Comment{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		UserID:    actor.ID,
		UserName:  actor.Name,
		UserRole:  actor.Role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Insert(ctx, c); err != nil {
		return nil, err
	}

	if actor.ID != p.UserID {
		if err := s.notifier.Notify(ctx, p.UserID, domain.NotifNewComment,
			"Nouveau commentaire",
			fmt.Sprintf("Un nouveau commentaire a été ajouté à votre projet '%s'", p.Title),
			map[string]any{"project_id": projectID, "comment_id": c.ID}); err != nil {
			s.logger.Warn().Err(err).Str("project_id", projectID).Msg("comment notification failed")
		}
	}
	return c, nil
}

// List returns a project's comments oldest-first.
func (s *CommentService) List(ctx context.Context, actor ports.Actor, projectID string) ([]*domain.Comment, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !p.CanRead(actor.Role, actor.ID) {
		return nil, fmt.Errorf("list comments: %w", domain.ErrForbidden)
	}
	return s.comments.ListByProject(ctx, projectID, s.limit)
}
