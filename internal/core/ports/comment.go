package ports

import (
	"context"

	"github.com/terangafund/citizen-projects/internal/core/domain"
)

// CommentRepository defines persistence operations for comments. Comments are
// immutable: insert and read only.
type CommentRepository interface {
	Insert(ctx context.Context, c *domain.Comment) error
	// ListByProject returns comments oldest-first, at most limit of them.
	ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.Comment, error)
}

// CommentService handles the comment exchange on a project. Read access
// mirrors project read access.
type CommentService interface {
	Add(ctx context.Context, actor Actor, projectID, content string) (*domain.Comment, error)
	List(ctx context.Context, actor Actor, projectID string) ([]*domain.Comment, error)
}
