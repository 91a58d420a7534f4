package ports

import (
	"context"

	"github.com/terangafund/citizen-projects/internal/core/domain"
)

// CreateProjectInput carries the data needed to create a funding request.
type CreateProjectInput struct {
	Title            string
	Description      string
	Category         string
	FundingRequested float64
	StartDate        string
	DurationMonths   int
	Objectives       []string
	BudgetBreakdown  map[string]float64
	Location         string
}

// UpdateProjectInput mirrors ProjectPatch at the use-case boundary.
type UpdateProjectInput struct {
	Title            *string
	Description      *string
	Category         *string
	FundingRequested *float64
	StartDate        *string
	DurationMonths   *int
	Objectives       *[]string
	BudgetBreakdown  *map[string]float64
	Location         *string
	Status           *domain.ProjectStatus
}

// ListProjectsInput carries the explicit filters of the list endpoint; the
// implicit visibility filter is derived from the actor.
type ListProjectsInput struct {
	Status   domain.ProjectStatus
	Category string
	Search   string
}

// DocumentUpload is one file offered for attachment to a project.
type DocumentUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ProjectService is the lifecycle engine: it owns the project entity, the
// status state machine, per-role authorization, history logging, and
// notification triggering.
type ProjectService interface {
	Create(ctx context.Context, actor Actor, in CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.Project, error)
	List(ctx context.Context, actor Actor, in ListProjectsInput) ([]*domain.Project, error)
	Update(ctx context.Context, actor Actor, id string, in UpdateProjectInput) (*domain.Project, error)

	Submit(ctx context.Context, actor Actor, id string) error
	Validate(ctx context.Context, actor Actor, id string) error
	Approve(ctx context.Context, actor Actor, id string) error
	Reject(ctx context.Context, actor Actor, id, reason string) error
	RequestDocuments(ctx context.Context, actor Actor, id, reason string) error

	UploadDocument(ctx context.Context, actor Actor, id string, up DocumentUpload) (*domain.ProjectDocument, error)
	DeleteDocument(ctx context.Context, actor Actor, id, documentID string) error

	History(ctx context.Context, actor Actor, id string) ([]*domain.HistoryEntry, error)
}
