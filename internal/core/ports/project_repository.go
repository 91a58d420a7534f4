package ports

import (
	"context"
	"time"

	"github.com/terangafund/citizen-projects/internal/core/domain"
)

// ListProjectsFilter carries the query parameters for listing projects.
// The visibility fields are always set by the service layer from the actor's
// role; Status/Category/Search are the caller's explicit filters.
type ListProjectsFilter struct {
	// OwnerID scopes the listing to one citizen's projects.
	OwnerID string
	// OfficialID, when non-empty, widens the listing to projects in
	// VisibleStatuses plus projects assigned to that official.
	OfficialID      string
	VisibleStatuses []domain.ProjectStatus

	Status   domain.ProjectStatus // optional: exact status
	Category string               // optional: exact category
	Search   string               // optional: case-insensitive substring over title+description
	Limit    int
}

// ProjectPatch carries editable project fields. Nil means "leave unchanged".
type ProjectPatch struct {
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

// StatusChange is a conditional lifecycle update: the write succeeds only if
// the project's current status is one of From at write time, closing the
// read-check-write race between concurrent transitions.
type StatusChange struct {
	From []domain.ProjectStatus
	To   domain.ProjectStatus

	SubmittedAt            *time.Time
	ValidatedAt            *time.Time
	ApprovedAt             *time.Time
	AssignedOfficialID     *string
	RejectionReason        *string
	DocumentsRequestReason *string
	UpdatedAt              time.Time
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Insert(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// List returns projects matching filter ordered by creation time,
	// newest first.
	List(ctx context.Context, f ListProjectsFilter) ([]*domain.Project, error)
	Update(ctx context.Context, id string, p ProjectPatch, updatedAt time.Time) error
	// ApplyStatusChange performs the compare-and-swap transition. Returns
	// domain.ErrInvalidTransition when the project exists but its status is
	// no longer in ch.From, and domain.ErrProjectNotFound when it is absent.
	ApplyStatusChange(ctx context.Context, id string, ch StatusChange) error
	PushDocument(ctx context.Context, id string, doc domain.ProjectDocument, updatedAt time.Time) error
	// PullDocument removes a document by its identifier. Callers verify the
	// document exists first; pulling an absent id is a no-op.
	PullDocument(ctx context.Context, id, documentID string, updatedAt time.Time) error
	// FindAll returns every project, for admin export.
	FindAll(ctx context.Context) ([]*domain.Project, error)
}
